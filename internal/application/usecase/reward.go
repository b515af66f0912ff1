package usecase

import "math/rand"

// markXP maps an answer-quality mark to its XP value.
var markXP = map[int]int64{1: 2, 2: 3, 3: 5}

// CalculateReward converts a lesson's answer-quality marks into rewards.
// The coin draw r is uniform in [1, 2) and independent of the multiplier;
// the battlepass is credited from baseXP, so an xp_boost never feeds it.
func CalculateReward(marks []int, multiplier float64, rng *rand.Rand) (baseXP, effectiveXP, coins int64) {
	for _, m := range marks {
		baseXP += markXP[m]
	}
	if multiplier < 1 {
		multiplier = 1
	}
	effectiveXP = int64(float64(baseXP) * multiplier)

	r := 1 + rng.Float64()
	coins = int64(float64(baseXP) * r)
	return baseXP, effectiveXP, coins
}

// ValidMark reports whether m is an accepted answer-quality mark.
func ValidMark(m int) bool {
	_, ok := markXP[m]
	return ok
}
