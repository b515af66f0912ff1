package repository

import (
	"context"
	"errors"

	"signlearn/internal/domain"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// BankFor reads one task bank through the (section, language_id) index.
func (r *TaskRepository) BankFor(ctx context.Context, section int, languageID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("section = ? AND language_id = ?", section, languageID).
		Order("task_id asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

type LanguageRepository struct {
	db *gorm.DB
}

func NewLanguageRepository(db *gorm.DB) *LanguageRepository {
	return &LanguageRepository{db: db}
}

func (r *LanguageRepository) GetByID(ctx context.Context, id string) (*domain.Language, error) {
	var lang domain.Language
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lang).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLanguageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (r *LanguageRepository) Create(ctx context.Context, l *domain.Language) error {
	return r.db.WithContext(ctx).Create(l).Error
}
