package usecase

import (
	"context"
	"fmt"
	"strconv"

	"signlearn/internal/domain"
)

// EvaluateAchievements returns the ids of catalog achievements the user now
// satisfies but has not been awarded yet. Evaluation runs against the
// post-update counters, only inside CompleteLevel.
func EvaluateAchievements(user *domain.User, catalog []domain.Achievement) []string {
	owned := make(map[string]struct{}, len(user.Achievements))
	for _, id := range user.Achievements {
		owned[id] = struct{}{}
	}

	earned := []string{}
	for i := range catalog {
		if _, ok := owned[catalog[i].ID]; ok {
			continue
		}
		if catalog[i].SatisfiedBy(user) {
			earned = append(earned, catalog[i].ID)
		}
	}
	return earned
}

type AchievementUsecase struct {
	achievements AchievementStore
}

func NewAchievementUsecase(achievements AchievementStore) *AchievementUsecase {
	return &AchievementUsecase{achievements: achievements}
}

type AchievementPage struct {
	Achievements []domain.Achievement `json:"achievements"`
	NextToken    string               `json:"next_token,omitempty"`
}

// List pages through the catalog. The token is an opaque offset; an empty
// token starts from the beginning.
func (uc *AchievementUsecase) List(ctx context.Context, pageSize int, nextToken string) (*AchievementPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := 0
	if nextToken != "" {
		parsed, err := strconv.Atoi(nextToken)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%w: bad next_token", domain.ErrValidation)
		}
		offset = parsed
	}

	rows, err := uc.achievements.Page(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}

	page := &AchievementPage{Achievements: rows}
	if len(rows) > pageSize {
		page.Achievements = rows[:pageSize]
		page.NextToken = strconv.Itoa(offset + pageSize)
	}
	return page, nil
}
