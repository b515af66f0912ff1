package usecase

import (
	"context"

	"signlearn/internal/domain"
)

type UserUsecase struct {
	users UserStore
}

func NewUserUsecase(users UserStore) *UserUsecase {
	return &UserUsecase{users: users}
}

func (uc *UserUsecase) GetProfile(ctx context.Context, email string) (*domain.User, error) {
	return uc.users.GetByEmail(ctx, email)
}

type PreferencesInput struct {
	Sound         *bool   `json:"sound"`
	Haptic        *bool   `json:"haptic"`
	Notifications *bool   `json:"notifications"`
	Reminder      *bool   `json:"reminder"`
	Language      *string `json:"language"`
}

// UpdatePreferences patches only the fields the client sent, so concurrent
// game-state writes to other attributes are never clobbered.
func (uc *UserUsecase) UpdatePreferences(ctx context.Context, email string, in PreferencesInput) error {
	fields := map[string]interface{}{}
	if in.Sound != nil {
		fields["sound"] = *in.Sound
	}
	if in.Haptic != nil {
		fields["haptic"] = *in.Haptic
	}
	if in.Notifications != nil {
		fields["notifications"] = *in.Notifications
	}
	if in.Reminder != nil {
		fields["reminder"] = *in.Reminder
	}
	if in.Language != nil {
		fields["language"] = *in.Language
	}
	if len(fields) == 0 {
		return nil
	}
	return uc.users.UpdateFields(ctx, email, fields)
}
