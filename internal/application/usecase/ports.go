package usecase

import (
	"context"

	"signlearn/internal/domain"
)

// Store ports. The gorm repositories satisfy these; tests substitute fakes
// with a frozen clock and seeded randomness.

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateFields(ctx context.Context, email string, fields map[string]interface{}) error
	UpdateVersioned(ctx context.Context, email string, version int64, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, email string, hash string) error
}

type SeasonStore interface {
	GetAll(ctx context.Context) ([]domain.Season, error)
}

type ItemStore interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
}

type AchievementStore interface {
	GetAll(ctx context.Context) ([]domain.Achievement, error)
	Page(ctx context.Context, limit, offset int) ([]domain.Achievement, error)
}

type TaskStore interface {
	BankFor(ctx context.Context, section int, languageID string) ([]domain.Task, error)
}

type LanguageStore interface {
	GetByID(ctx context.Context, id string) (*domain.Language, error)
}

// writeAttempts bounds the re-read/retry loop around conditional writes.
const writeAttempts = 3
