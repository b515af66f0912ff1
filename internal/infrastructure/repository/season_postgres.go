package repository

import (
	"context"

	"signlearn/internal/domain"

	"gorm.io/gorm"
)

type SeasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetAll(ctx context.Context) ([]domain.Season, error) {
	var seasons []domain.Season
	err := r.db.WithContext(ctx).Order("season asc").Find(&seasons).Error
	return seasons, err
}

func (r *SeasonRepository) Create(ctx context.Context, s *domain.Season) error {
	return r.db.WithContext(ctx).Create(s).Error
}
