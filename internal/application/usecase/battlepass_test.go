package usecase

import (
	"context"
	"testing"

	"signlearn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBattlepass(store *fakeUserStore) *BattlepassUsecase {
	return NewBattlepassUsecase(store, testSeasons()).WithClock(frozenClock)
}

func TestUnlockedLevels(t *testing.T) {
	season := &domain.Season{Levels: domain.SeasonLevels{
		{Level: 1, RequiredXP: 150},
		{Level: 2, RequiredXP: 250},
		{Level: 3, RequiredXP: 350},
	}}

	assert.Empty(t, UnlockedLevels(season, 149))
	assert.Equal(t, []int{1}, UnlockedLevels(season, 150))
	assert.Equal(t, []int{1}, UnlockedLevels(season, 399))
	assert.Equal(t, []int{1, 2}, UnlockedLevels(season, 400))
	assert.Equal(t, []int{1, 2, 3}, UnlockedLevels(season, 5000))
}

func TestBattlepass_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("NoEntryYet", func(t *testing.T) {
		store := newFakeUserStore(newUser())

		status, err := newBattlepass(store).Status(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, 3, status.Season)
		assert.Zero(t, status.XP)
		assert.Empty(t, status.Unlocked)
		assert.Empty(t, status.Claimed)
		assert.Empty(t, status.NewlyUnlocked)
	})

	t.Run("ClaimedTiersExcludedFromNewlyUnlocked", func(t *testing.T) {
		user := newUser()
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 400, ClaimedLevels: []int{1}}}
		store := newFakeUserStore(user)

		status, err := newBattlepass(store).Status(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, status.Unlocked)
		assert.Equal(t, []int{1}, status.Claimed)
		assert.Equal(t, []int{2}, status.NewlyUnlocked)
	})

	t.Run("NoActiveSeason", func(t *testing.T) {
		uc := NewBattlepassUsecase(newFakeUserStore(newUser()), &fakeSeasonStore{}).WithClock(frozenClock)
		_, err := uc.Status(ctx, "ada@example.com")
		assert.ErrorIs(t, err, domain.ErrSeasonNotFound)
	})
}

func TestBattlepass_Claim(t *testing.T) {
	ctx := context.Background()

	t.Run("GrantsCoinsAndRecordsClaim", func(t *testing.T) {
		user := newUser()
		user.Coins = 10
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 400}}
		store := newFakeUserStore(user)

		result, err := newBattlepass(store).Claim(ctx, user.Email, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Level)
		assert.Equal(t, int64(30), result.Coins)

		stored, _ := store.GetByEmail(ctx, user.Email)
		assert.Equal(t, int64(40), stored.Coins)
		assert.Equal(t, []int{1}, stored.Battlepass[0].ClaimedLevels)
	})

	t.Run("ClaimsNeedNoOrder", func(t *testing.T) {
		user := newUser()
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 400}}
		store := newFakeUserStore(user)

		result, err := newBattlepass(store).Claim(ctx, user.Email, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(60), result.Coins)

		stored, _ := store.GetByEmail(ctx, user.Email)
		assert.Equal(t, []int{2}, stored.Battlepass[0].ClaimedLevels)
	})

	t.Run("SecondClaimRejected", func(t *testing.T) {
		user := newUser()
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 400, ClaimedLevels: []int{1}}}
		store := newFakeUserStore(user)

		_, err := newBattlepass(store).Claim(ctx, user.Email, 1)
		assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

		stored, _ := store.GetByEmail(ctx, user.Email)
		assert.Zero(t, stored.Coins, "rejected claim must not pay out")
	})

	t.Run("LockedTier", func(t *testing.T) {
		user := newUser()
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 399}}
		store := newFakeUserStore(user)

		_, err := newBattlepass(store).Claim(ctx, user.Email, 2)
		assert.ErrorIs(t, err, domain.ErrNotEnoughXP)
	})

	t.Run("UnknownTier", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		_, err := newBattlepass(store).Claim(ctx, "ada@example.com", 99)
		assert.ErrorIs(t, err, domain.ErrTierNotFound)
	})

	t.Run("NoEntryMeansNoXP", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		_, err := newBattlepass(store).Claim(ctx, "ada@example.com", 1)
		assert.ErrorIs(t, err, domain.ErrNotEnoughXP)
	})

	t.Run("RetriesOnConflict", func(t *testing.T) {
		user := newUser()
		user.Battlepass = domain.SeasonEntries{{SeasonID: 3, XP: 400}}
		store := newFakeUserStore(user)
		store.conflicts = 1

		_, err := newBattlepass(store).Claim(ctx, user.Email, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, store.writes)
	})
}
