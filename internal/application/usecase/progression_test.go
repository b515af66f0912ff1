package usecase

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"signlearn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func frozenClock() time.Time { return frozenNow }

func testSeasons() *fakeSeasonStore {
	return &fakeSeasonStore{seasons: []domain.Season{{
		Season:    3,
		Name:      "Season 3",
		StartDate: frozenNow.AddDate(0, -1, 0),
		EndDate:   frozenNow.AddDate(0, 1, 0),
		Levels: domain.SeasonLevels{
			{Level: 1, Coins: 30, RequiredXP: 150},
			{Level: 2, Coins: 60, RequiredXP: 250},
			{Level: 3, Coins: 90, RequiredXP: 350},
		},
	}}}
}

func newUser() *domain.User {
	return &domain.User{
		Email:          "ada@example.com",
		Username:       "ada",
		Hearts:         5,
		CurrentLevel:   domain.LevelMap{},
		LettersLearned: domain.LettersMap{},
		Battlepass:     domain.SeasonEntries{},
		ItemsInventory: domain.StringList{},
		ActivatedItems: domain.ActiveEffects{},
		Achievements:   domain.StringList{},
	}
}

func completeInput() CompleteLevelInput {
	return CompleteLevelInput{
		Marks:          []int{1, 2, 3},
		StartedAt:      "2025-02-01T11:30:00Z",
		FinishedAt:     "2025-02-01T12:00:00Z",
		LanguageID:     "asl",
		LettersLearned: []string{"a", "b"},
	}
}

func newProgression(store *fakeUserStore, seed int64) *ProgressionUsecase {
	return NewProgressionUsecase(
		store,
		&fakeLanguageStore{ids: map[string]bool{"asl": true}},
		testSeasons(),
		&fakeAchievementStore{achievements: []domain.Achievement{
			{ID: "xp-5", Type: domain.AchievementTypeXP, Requires: 5},
			{ID: "xp-1000", Type: domain.AchievementTypeXP, Requires: 1000},
			{ID: "time-600", Type: domain.AchievementTypeTimePlayed, Requires: 600},
			{ID: "level-2", Type: domain.AchievementTypeLevel, Requires: 2},
		}},
	).WithClock(frozenClock).WithRand(rand.New(rand.NewSource(seed)))
}

func TestProgression_CompleteLevel(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstLessonFromEmptyState", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		// replay the reward draw to know the exact coin amount
		base, effective, coins := CalculateReward([]int{1, 2, 3}, 1, rand.New(rand.NewSource(42)))
		require.Equal(t, int64(10), base)

		result, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)

		assert.Equal(t, int64(10), result.BaseXP)
		assert.Equal(t, effective, result.XP)
		assert.Equal(t, coins, result.Coins)
		assert.Equal(t, 2, result.CurrentLevel)

		user, _ := store.GetByEmail(ctx, "ada@example.com")
		assert.Equal(t, 2, user.CurrentLevel["asl"])
		assert.Equal(t, []string{"a", "b"}, user.LettersLearned["asl"])
		assert.Equal(t, 1800.0, user.TimePlayed)
		assert.Equal(t, effective, user.XP)
		assert.Equal(t, coins, user.Coins)
	})

	t.Run("SeasonEntryCreatedAndCreditedWithBaseXP", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		_, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)

		user, _ := store.GetByEmail(ctx, "ada@example.com")
		require.Len(t, user.Battlepass, 1)
		assert.Equal(t, 3, user.Battlepass[0].SeasonID)
		assert.Equal(t, int64(10), user.Battlepass[0].XP)
		assert.Empty(t, user.Battlepass[0].ClaimedLevels)
	})

	t.Run("BattlepassIgnoresXPBoost", func(t *testing.T) {
		user := newUser()
		user.ActivatedItems = domain.ActiveEffects{{
			Category:  domain.ItemCategoryXPBoost,
			Effects:   map[string]float64{"multiplier": 2},
			ExpiresAt: frozenNow.Add(time.Hour),
		}}
		store := newFakeUserStore(user)
		uc := newProgression(store, 42)

		result, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)

		assert.Equal(t, int64(10), result.BaseXP)
		assert.Equal(t, int64(20), result.XP)

		stored, _ := store.GetByEmail(ctx, "ada@example.com")
		assert.Equal(t, int64(10), stored.Battlepass[0].XP, "season xp must be unmultiplied")
	})

	t.Run("ExpiredBoostIgnored", func(t *testing.T) {
		user := newUser()
		user.ActivatedItems = domain.ActiveEffects{{
			Category:  domain.ItemCategoryXPBoost,
			Effects:   map[string]float64{"multiplier": 2},
			ExpiresAt: frozenNow.Add(-time.Minute),
		}}
		store := newFakeUserStore(user)
		uc := newProgression(store, 42)

		result, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)
		assert.Equal(t, result.BaseXP, result.XP)
	})

	t.Run("LettersMergePreservesOrder", func(t *testing.T) {
		user := newUser()
		user.LettersLearned = domain.LettersMap{"asl": {"b", "c"}}
		store := newFakeUserStore(user)
		uc := newProgression(store, 42)

		_, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)

		stored, _ := store.GetByEmail(ctx, "ada@example.com")
		assert.Equal(t, []string{"b", "c", "a"}, stored.LettersLearned["asl"])
	})

	t.Run("AchievementsEvaluatedOnce", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		result, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"xp-5", "time-600", "level-2"}, result.NewAchievements)

		result, err = uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)
		assert.Empty(t, result.NewAchievements)
	})

	t.Run("RetriesOnVersionConflict", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		store.conflicts = 2
		uc := newProgression(store, 42)

		_, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		require.NoError(t, err)
		assert.Equal(t, 1, store.writes)
	})

	t.Run("GivesUpAfterBoundedRetries", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		store.conflicts = writeAttempts
		uc := newProgression(store, 42)

		_, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("RejectsBadTimestamps", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		in := completeInput()
		in.FinishedAt = "2025-02-01T11:00:00Z" // before started_at
		_, err := uc.CompleteLevel(ctx, "ada@example.com", in)
		assert.ErrorIs(t, err, domain.ErrValidation)

		in = completeInput()
		in.StartedAt = "2025-02-01T11:30:00+02:00" // no trailing Z
		_, err = uc.CompleteLevel(ctx, "ada@example.com", in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("RejectsUnknownMark", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		in := completeInput()
		in.Marks = []int{1, 4}
		_, err := uc.CompleteLevel(ctx, "ada@example.com", in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		_, err := uc.CompleteLevel(ctx, "ghost@example.com", completeInput())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		in := completeInput()
		in.LanguageID = "xx"
		_, err := uc.CompleteLevel(ctx, "ada@example.com", in)
		assert.ErrorIs(t, err, domain.ErrLanguageNotFound)
	})

	t.Run("LifetimeCountersNeverDecrease", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newProgression(store, 42)

		var lastXP int64
		var lastTime float64
		lastLevel := 0
		for i := 0; i < 5; i++ {
			_, err := uc.CompleteLevel(ctx, "ada@example.com", completeInput())
			require.NoError(t, err)
			user, _ := store.GetByEmail(ctx, "ada@example.com")
			assert.GreaterOrEqual(t, user.XP, lastXP)
			assert.GreaterOrEqual(t, user.TimePlayed, lastTime)
			assert.GreaterOrEqual(t, user.CurrentLevel["asl"], lastLevel)
			lastXP, lastTime, lastLevel = user.XP, user.TimePlayed, user.CurrentLevel["asl"]
		}
	})
}

func TestActiveSeason(t *testing.T) {
	seasons := []domain.Season{
		{Season: 1, StartDate: frozenNow.AddDate(0, -4, 0), EndDate: frozenNow.AddDate(0, -3, 0)},
		{Season: 2, StartDate: frozenNow.AddDate(0, -1, 0), EndDate: frozenNow.AddDate(0, 1, 0)},
		{Season: 3, StartDate: frozenNow.AddDate(0, 0, -1), EndDate: frozenNow.AddDate(0, 0, 1)},
	}

	active := ActiveSeason(seasons, frozenNow)
	require.NotNil(t, active)
	// seasons 2 and 3 overlap; scan order wins
	assert.Equal(t, 2, active.Season)

	assert.Nil(t, ActiveSeason(seasons[:1], frozenNow))
}
