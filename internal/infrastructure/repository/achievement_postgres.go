package repository

import (
	"context"

	"signlearn/internal/domain"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) GetAll(ctx context.Context) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := r.db.WithContext(ctx).Order("id asc").Find(&achievements).Error
	return achievements, err
}

// Page returns one page ordered by id; limit+1 rows are requested so the
// caller can tell whether a next page exists.
func (r *AchievementRepository) Page(ctx context.Context, limit, offset int) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := r.db.WithContext(ctx).
		Order("id asc").
		Limit(limit + 1).
		Offset(offset).
		Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) Create(ctx context.Context, a *domain.Achievement) error {
	return r.db.WithContext(ctx).Create(a).Error
}
