package repository

import (
	"context"
	"errors"

	"signlearn/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields patches only the named scalar attributes. Two concurrent
// patches of disjoint attribute sets cannot lose each other's writes.
func (r *UserRepository) UpdateFields(ctx context.Context, email string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateVersioned is the conditional write used whenever a mutation was
// computed from a read of the list-shaped columns (inventory, battlepass,
// claimed levels, achievements). The update only lands if the row still
// carries the version that was read; otherwise the caller must re-read.
func (r *UserRepository) UpdateVersioned(ctx context.Context, email string, version int64, fields map[string]interface{}) error {
	patch := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		patch[k] = v
	}
	patch["version"] = version + 1

	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND version = ?", email, version).
		Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email string, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).
		Update("password", hash).Error
}
