package usecase

import (
	"context"
	"errors"
	"time"

	"signlearn/internal/domain"
)

type BattlepassUsecase struct {
	users   UserStore
	seasons SeasonStore
	now     func() time.Time
}

func NewBattlepassUsecase(users UserStore, seasons SeasonStore) *BattlepassUsecase {
	return &BattlepassUsecase{
		users:   users,
		seasons: seasons,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *BattlepassUsecase) WithClock(now func() time.Time) *BattlepassUsecase {
	uc.now = now
	return uc
}

type BattlepassStatus struct {
	Season        int                  `json:"season"`
	Name          string               `json:"name"`
	EndDate       time.Time            `json:"end_date"`
	Levels        []domain.SeasonLevel `json:"levels"`
	XP            int64                `json:"xp"`
	Unlocked      []int                `json:"unlocked_levels"`
	Claimed       []int                `json:"claimed_levels"`
	NewlyUnlocked []int                `json:"newly_unlocked"`
}

// Status reports the user's standing in the active season.
func (uc *BattlepassUsecase) Status(ctx context.Context, email string) (*BattlepassStatus, error) {
	season, err := uc.activeSeason(ctx)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var xp int64
	claimed := []int{}
	if entry := user.SeasonEntryFor(season.Season); entry != nil {
		xp = entry.XP
		claimed = append(claimed, entry.ClaimedLevels...)
	}

	unlocked := UnlockedLevels(season, xp)
	return &BattlepassStatus{
		Season:        season.Season,
		Name:          season.Name,
		EndDate:       season.EndDate,
		Levels:        season.Levels,
		XP:            xp,
		Unlocked:      unlocked,
		Claimed:       claimed,
		NewlyUnlocked: withoutClaimed(unlocked, claimed),
	}, nil
}

type ClaimResult struct {
	Level int   `json:"level"`
	Coins int64 `json:"coins"`
}

// Claim grants the tier reward once. Claims need no order: any unlocked
// level may be claimed while earlier ones stay unclaimed.
func (uc *BattlepassUsecase) Claim(ctx context.Context, email string, level int) (*ClaimResult, error) {
	season, err := uc.activeSeason(ctx)
	if err != nil {
		return nil, err
	}
	tier := season.TierFor(level)
	if tier == nil {
		return nil, domain.ErrTierNotFound
	}
	required := season.CumulativeXP(level)

	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		entry := user.SeasonEntryFor(season.Season)
		var xp int64
		if entry != nil {
			xp = entry.XP
		}
		if xp < required {
			return nil, domain.ErrNotEnoughXP
		}
		if entry != nil {
			for _, claimed := range entry.ClaimedLevels {
				if claimed == level {
					return nil, domain.ErrAlreadyClaimed
				}
			}
		}

		battlepass := append(domain.SeasonEntries{}, user.Battlepass...)
		if entry == nil {
			battlepass = append(battlepass, domain.SeasonEntry{SeasonID: season.Season, ClaimedLevels: []int{level}})
		} else {
			for i := range battlepass {
				if battlepass[i].SeasonID == season.Season {
					battlepass[i].ClaimedLevels = append(append([]int{}, battlepass[i].ClaimedLevels...), level)
				}
			}
		}

		err = uc.users.UpdateVersioned(ctx, email, user.Version, map[string]interface{}{
			"coins":      user.Coins + tier.Coins,
			"battlepass": battlepass,
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &ClaimResult{Level: level, Coins: tier.Coins}, nil
	}
	return nil, domain.ErrVersionConflict
}

func (uc *BattlepassUsecase) activeSeason(ctx context.Context) (*domain.Season, error) {
	seasons, err := uc.seasons.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	season := ActiveSeason(seasons, uc.now())
	if season == nil {
		return nil, domain.ErrSeasonNotFound
	}
	return season, nil
}

// UnlockedLevels is the maximal prefix of tiers whose cumulative required_xp
// fits within xp. required_xp is a delta from the previous tier.
func UnlockedLevels(season *domain.Season, xp int64) []int {
	unlocked := []int{}
	var cumulative int64
	for _, tier := range season.Levels {
		cumulative += tier.RequiredXP
		if cumulative > xp {
			break
		}
		unlocked = append(unlocked, tier.Level)
	}
	return unlocked
}

func withoutClaimed(unlocked, claimed []int) []int {
	claimedSet := make(map[int]struct{}, len(claimed))
	for _, c := range claimed {
		claimedSet[c] = struct{}{}
	}
	out := []int{}
	for _, l := range unlocked {
		if _, ok := claimedSet[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}
