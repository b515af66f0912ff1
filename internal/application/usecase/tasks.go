package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"signlearn/internal/domain"
)

type TaskUsecase struct {
	users      UserStore
	tasks      TaskStore
	languages  LanguageStore
	maxSection int

	rng *rand.Rand
}

func NewTaskUsecase(users UserStore, tasks TaskStore, languages LanguageStore, maxSection int) *TaskUsecase {
	return &TaskUsecase{
		users:      users,
		tasks:      tasks,
		languages:  languages,
		maxSection: maxSection,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (uc *TaskUsecase) WithRand(rng *rand.Rand) *TaskUsecase {
	uc.rng = rng
	return uc
}

// LevelNotAllowedError reports a request for any level other than the next
// one; the response carries the user's current level.
type LevelNotAllowedError struct {
	CurrentLevel int
}

func (e *LevelNotAllowedError) Error() string {
	return fmt.Sprintf("only level %d can be requested", e.CurrentLevel+1)
}

// ListTasks assembles the quiz for the user's next level. The bulk of the
// lesson comes from the level's section bank, topped up with review tasks
// from earlier sections; when the target section has no bank yet, the
// lesson is synthesised from the newest authored sections.
func (uc *TaskUsecase) ListTasks(ctx context.Context, email, languageID string, level int) ([]domain.Task, error) {
	if _, err := uc.languages.GetByID(ctx, languageID); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	current, ok := user.CurrentLevel[languageID]
	if !ok {
		current = 1
	}
	if level != current+1 {
		return nil, &LevelNotAllowedError{CurrentLevel: current}
	}

	section := (level/10 + 1) * 10

	bank, err := uc.tasks.BankFor(ctx, section, languageID)
	if err != nil {
		return nil, err
	}

	if len(bank) == 0 {
		return uc.synthesiseLesson(ctx, languageID)
	}

	lesson := []domain.Task{}
	lesson = append(lesson, pickByVersion(bank, 1, 4, uc.rng)...)
	lesson = append(lesson, pickByVersion(bank, 2, 4, uc.rng)...)
	lesson = append(lesson, pickByVersion(bank, 3, 2, uc.rng)...)

	switch {
	case section == 10:
		lesson = append(lesson, pickAny(bank, 5, uc.rng)...)
	case section == 20:
		prev, err := uc.tasks.BankFor(ctx, 10, languageID)
		if err != nil {
			return nil, err
		}
		lesson = append(lesson, pickByVersion(prev, 1, 2, uc.rng)...)
		lesson = append(lesson, pickByVersion(prev, 2, 2, uc.rng)...)
		lesson = append(lesson, pickByVersion(prev, 3, 1, uc.rng)...)
	case section >= 30:
		prev, err := uc.tasks.BankFor(ctx, section-10, languageID)
		if err != nil {
			return nil, err
		}
		lesson = append(lesson, pickByVersion(prev, 1, 1, uc.rng)...)
		lesson = append(lesson, pickByVersion(prev, 2, 1, uc.rng)...)
		lesson = append(lesson, pickByVersion(prev, 3, 1, uc.rng)...)

		older, err := uc.tasks.BankFor(ctx, section-20, languageID)
		if err != nil {
			return nil, err
		}
		lesson = append(lesson, pickByVersion(older, 1, 1, uc.rng)...)
		lesson = append(lesson, pickByVersion(older, 2, 1, uc.rng)...)
	}

	return lesson, nil
}

// synthesiseLesson builds a lesson from the newest authored sections when
// the target section has no bank of its own.
func (uc *TaskUsecase) synthesiseLesson(ctx context.Context, languageID string) ([]domain.Task, error) {
	if uc.maxSection <= 0 {
		return []domain.Task{}, nil
	}

	lesson := []domain.Task{}
	ratios := []struct {
		section    int
		v1, v2, v3 int
	}{
		{uc.maxSection, 3, 3, 2},
		{uc.maxSection - 10, 2, 1, 1},
		{uc.maxSection - 20, 1, 1, 1},
	}
	for _, r := range ratios {
		if r.section <= 0 {
			continue
		}
		bank, err := uc.tasks.BankFor(ctx, r.section, languageID)
		if err != nil {
			return nil, err
		}
		lesson = append(lesson, pickByVersion(bank, 1, r.v1, uc.rng)...)
		lesson = append(lesson, pickByVersion(bank, 2, r.v2, uc.rng)...)
		lesson = append(lesson, pickByVersion(bank, 3, r.v3, uc.rng)...)
	}

	uc.rng.Shuffle(len(lesson), func(i, j int) {
		lesson[i], lesson[j] = lesson[j], lesson[i]
	})
	return lesson, nil
}

// pickByVersion samples up to n distinct tasks of the given version.
func pickByVersion(bank []domain.Task, version, n int, rng *rand.Rand) []domain.Task {
	pool := []domain.Task{}
	for _, t := range bank {
		if t.Version == version {
			pool = append(pool, t)
		}
	}
	return sample(pool, n, rng)
}

func pickAny(bank []domain.Task, n int, rng *rand.Rand) []domain.Task {
	return sample(append([]domain.Task{}, bank...), n, rng)
}

func sample(pool []domain.Task, n int, rng *rand.Rand) []domain.Task {
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
