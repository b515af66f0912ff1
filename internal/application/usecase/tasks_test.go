package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"signlearn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bank builds n tasks per version (1..3) for one section.
func bank(section int, languageID string, perVersion int) []domain.Task {
	tasks := []domain.Task{}
	for version := 1; version <= 3; version++ {
		for i := 0; i < perVersion; i++ {
			tasks = append(tasks, domain.Task{
				TaskID:     fmt.Sprintf("%s-%d-v%d-%d", languageID, section, version, i),
				Section:    section,
				LanguageID: languageID,
				Version:    version,
			})
		}
	}
	return tasks
}

func countVersions(tasks []domain.Task) map[int]int {
	counts := map[int]int{}
	for _, t := range tasks {
		counts[t.Version]++
	}
	return counts
}

func countSections(tasks []domain.Task) map[int]int {
	counts := map[int]int{}
	for _, t := range tasks {
		counts[t.Section]++
	}
	return counts
}

func newTaskUC(store *fakeUserStore, banks map[string][]domain.Task, maxSection int) *TaskUsecase {
	return NewTaskUsecase(
		store,
		&fakeTaskStore{banks: banks},
		&fakeLanguageStore{ids: map[string]bool{"asl": true}},
		maxSection,
	).WithRand(rand.New(rand.NewSource(11)))
}

func TestTaskUsecase_ListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlyNextLevelAllowed", func(t *testing.T) {
		user := newUser()
		user.CurrentLevel = domain.LevelMap{"asl": 4}
		store := newFakeUserStore(user)
		uc := newTaskUC(store, map[string][]domain.Task{}, 30)

		_, err := uc.ListTasks(ctx, user.Email, "asl", 7)
		var notAllowed *LevelNotAllowedError
		require.ErrorAs(t, err, &notAllowed)
		assert.Equal(t, 4, notAllowed.CurrentLevel)

		_, err = uc.ListTasks(ctx, user.Email, "asl", 4)
		assert.ErrorAs(t, err, &notAllowed)
	})

	t.Run("NoProgressDefaultsToLevelOne", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 6),
		}, 30)

		// a fresh user is at level 1, so only level 2 is requestable
		_, err := uc.ListTasks(ctx, "ada@example.com", "asl", 3)
		var notAllowed *LevelNotAllowedError
		require.ErrorAs(t, err, &notAllowed)
		assert.Equal(t, 1, notAllowed.CurrentLevel)

		tasks, err := uc.ListTasks(ctx, "ada@example.com", "asl", 2)
		require.NoError(t, err)
		assert.NotEmpty(t, tasks)
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newTaskUC(store, map[string][]domain.Task{}, 30)

		_, err := uc.ListTasks(ctx, "ada@example.com", "fr", 2)
		assert.ErrorIs(t, err, domain.ErrLanguageNotFound)
	})

	t.Run("FirstSectionComposition", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 6),
		}, 30)

		tasks, err := uc.ListTasks(ctx, "ada@example.com", "asl", 2)
		require.NoError(t, err)
		assert.Len(t, tasks, 15, "4+4+2 by version plus 5 of any version")

		counts := countVersions(tasks)
		assert.GreaterOrEqual(t, counts[1], 4)
		assert.GreaterOrEqual(t, counts[2], 4)
		assert.GreaterOrEqual(t, counts[3], 2)
	})

	t.Run("SecondSectionReviewsTheFirst", func(t *testing.T) {
		user := newUser()
		user.CurrentLevel = domain.LevelMap{"asl": 11}
		store := newFakeUserStore(user)
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 6),
			bankKey(20, "asl"): bank(20, "asl", 6),
		}, 30)

		tasks, err := uc.ListTasks(ctx, user.Email, "asl", 12)
		require.NoError(t, err)
		assert.Len(t, tasks, 15)

		sections := countSections(tasks)
		assert.Equal(t, 10, sections[20])
		assert.Equal(t, 5, sections[10])
	})

	t.Run("LaterSectionsReviewTwoBack", func(t *testing.T) {
		user := newUser()
		user.CurrentLevel = domain.LevelMap{"asl": 21}
		store := newFakeUserStore(user)
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 6),
			bankKey(20, "asl"): bank(20, "asl", 6),
			bankKey(30, "asl"): bank(30, "asl", 6),
		}, 30)

		tasks, err := uc.ListTasks(ctx, user.Email, "asl", 22)
		require.NoError(t, err)
		assert.Len(t, tasks, 15)

		sections := countSections(tasks)
		assert.Equal(t, 10, sections[30])
		assert.Equal(t, 3, sections[20])
		assert.Equal(t, 2, sections[10])
	})

	t.Run("MissingBankSynthesisesFromNewest", func(t *testing.T) {
		user := newUser()
		user.CurrentLevel = domain.LevelMap{"asl": 41}
		store := newFakeUserStore(user)
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 6),
			bankKey(20, "asl"): bank(20, "asl", 6),
			bankKey(30, "asl"): bank(30, "asl", 6),
		}, 30)

		tasks, err := uc.ListTasks(ctx, user.Email, "asl", 42)
		require.NoError(t, err)
		assert.Len(t, tasks, 15, "3+3+2 from newest, 2+1+1 and 1+1+1 from the two before")

		sections := countSections(tasks)
		assert.Equal(t, 8, sections[30])
		assert.Equal(t, 4, sections[20])
		assert.Equal(t, 3, sections[10])
	})

	t.Run("ShortBankReturnsWhatExists", func(t *testing.T) {
		store := newFakeUserStore(newUser())
		uc := newTaskUC(store, map[string][]domain.Task{
			bankKey(10, "asl"): bank(10, "asl", 1), // one task per version
		}, 30)

		tasks, err := uc.ListTasks(ctx, "ada@example.com", "asl", 2)
		require.NoError(t, err)
		assert.NotEmpty(t, tasks)
		assert.LessOrEqual(t, len(tasks), 15)
	})
}
