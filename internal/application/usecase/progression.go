package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"signlearn/internal/domain"
)

type ProgressionUsecase struct {
	users        UserStore
	languages    LanguageStore
	seasons      SeasonStore
	achievements AchievementStore

	now func() time.Time
	rng *rand.Rand
}

func NewProgressionUsecase(
	users UserStore,
	languages LanguageStore,
	seasons SeasonStore,
	achievements AchievementStore,
) *ProgressionUsecase {
	return &ProgressionUsecase{
		users:        users,
		languages:    languages,
		seasons:      seasons,
		achievements: achievements,
		now:          func() time.Time { return time.Now().UTC() },
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock and WithRand override the time/random sources; tests use them.
func (uc *ProgressionUsecase) WithClock(now func() time.Time) *ProgressionUsecase {
	uc.now = now
	return uc
}

func (uc *ProgressionUsecase) WithRand(rng *rand.Rand) *ProgressionUsecase {
	uc.rng = rng
	return uc
}

type CompleteLevelInput struct {
	Marks          []int    `json:"correct_answers_versions" binding:"required"`
	StartedAt      string   `json:"started_at" binding:"required"`
	FinishedAt     string   `json:"finished_at" binding:"required"`
	LanguageID     string   `json:"language_id" binding:"required"`
	LettersLearned []string `json:"letters_learned"`
}

type CompleteLevelResult struct {
	BaseXP          int64    `json:"base_xp"`
	XP              int64    `json:"xp"`
	Coins           int64    `json:"coins"`
	CurrentLevel    int      `json:"current_level"`
	NewAchievements []string `json:"new_achievements"`
}

// CompleteLevel applies one finished lesson to the user record: rewards,
// letter merge, level bump, time played, battlepass season XP and
// achievements, persisted as a single conditional write.
func (uc *ProgressionUsecase) CompleteLevel(ctx context.Context, email string, in CompleteLevelInput) (*CompleteLevelResult, error) {
	started, finished, err := parseLessonWindow(in.StartedAt, in.FinishedAt)
	if err != nil {
		return nil, err
	}
	for _, m := range in.Marks {
		if !ValidMark(m) {
			return nil, fmt.Errorf("%w: mark %d outside {1,2,3}", domain.ErrValidation, m)
		}
	}

	if _, err := uc.languages.GetByID(ctx, in.LanguageID); err != nil {
		return nil, err
	}

	seasons, err := uc.seasons.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.achievements.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	elapsed := finished.Sub(started).Seconds()
	now := uc.now()
	active := ActiveSeason(seasons, now)

	var result *CompleteLevelResult
	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		multiplier := user.ActiveMultiplier(now)
		baseXP, effectiveXP, coins := CalculateReward(in.Marks, multiplier, uc.rng)

		letters := mergeLetters(user.LettersLearned[in.LanguageID], in.LettersLearned)
		lettersLearned := cloneLettersMap(user.LettersLearned)
		lettersLearned[in.LanguageID] = letters

		currentLevel := cloneLevelMap(user.CurrentLevel)
		if _, ok := currentLevel[in.LanguageID]; ok {
			currentLevel[in.LanguageID]++
		} else {
			// first completion of level 1 puts the user on level 2
			currentLevel[in.LanguageID] = 2
		}

		user.TimePlayed += elapsed
		user.XP += effectiveXP
		user.Coins += coins
		user.CurrentLevel = currentLevel
		user.LettersLearned = lettersLearned

		battlepass := user.Battlepass
		if active != nil {
			battlepass = creditSeasonXP(battlepass, active.Season, baseXP)
			user.Battlepass = battlepass
		}

		earned := EvaluateAchievements(user, catalog)
		achievements := user.Achievements
		if len(earned) > 0 {
			achievements = append(append(domain.StringList{}, achievements...), earned...)
		}

		err = uc.users.UpdateVersioned(ctx, email, user.Version, map[string]interface{}{
			"time_played":     user.TimePlayed,
			"xp":              user.XP,
			"coins":           user.Coins,
			"current_level":   currentLevel,
			"letters_learned": lettersLearned,
			"battlepass":      battlepass,
			"achievements":    achievements,
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		result = &CompleteLevelResult{
			BaseXP:          baseXP,
			XP:              effectiveXP,
			Coins:           coins,
			CurrentLevel:    currentLevel[in.LanguageID],
			NewAchievements: earned,
		}
		return result, nil
	}
	return nil, domain.ErrVersionConflict
}

func parseLessonWindow(startedAt, finishedAt string) (time.Time, time.Time, error) {
	if !strings.HasSuffix(startedAt, "Z") || !strings.HasSuffix(finishedAt, "Z") {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: timestamps must be UTC with trailing Z", domain.ErrValidation)
	}
	started, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: started_at: %v", domain.ErrValidation, err)
	}
	finished, err := time.Parse(time.RFC3339, finishedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: finished_at: %v", domain.ErrValidation, err)
	}
	if finished.Before(started) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: finished_at before started_at", domain.ErrValidation)
	}
	return started, finished, nil
}

// mergeLetters appends each new token not already present, preserving the
// original insertion order.
func mergeLetters(existing, incoming []string) []string {
	merged := append([]string{}, existing...)
	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		seen[l] = struct{}{}
	}
	for _, l := range incoming {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		merged = append(merged, l)
	}
	return merged
}

// creditSeasonXP adds base XP to the entry for the season, creating the
// entry on first contact with an active season.
func creditSeasonXP(entries domain.SeasonEntries, seasonID int, baseXP int64) domain.SeasonEntries {
	out := append(domain.SeasonEntries{}, entries...)
	for i := range out {
		if out[i].SeasonID == seasonID {
			out[i].XP += baseXP
			return out
		}
	}
	return append(out, domain.SeasonEntry{
		SeasonID:      seasonID,
		XP:            baseXP,
		ClaimedLevels: []int{},
	})
}

// ActiveSeason returns the season whose window contains now. If several
// overlap, the first in scan order wins.
func ActiveSeason(seasons []domain.Season, now time.Time) *domain.Season {
	var active *domain.Season
	for i := range seasons {
		if !seasons[i].Active(now) {
			continue
		}
		if active != nil {
			log.Printf("WARN: multiple active battlepass seasons (%d and %d), keeping %d",
				active.Season, seasons[i].Season, active.Season)
			continue
		}
		active = &seasons[i]
	}
	return active
}

func cloneLevelMap(m domain.LevelMap) domain.LevelMap {
	out := make(domain.LevelMap, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneLettersMap(m domain.LettersMap) domain.LettersMap {
	out := make(domain.LettersMap, len(m)+1)
	for k, v := range m {
		out[k] = append([]string{}, v...)
	}
	return out
}
