package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"signlearn/internal/domain"
	"signlearn/internal/infrastructure/cache"
	"signlearn/internal/infrastructure/email"
	"signlearn/internal/infrastructure/security"
)

type AuthUsecase struct {
	users        UserStore
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	emailSender  *email.EmailSender
}

func NewAuthUsecase(
	users UserStore,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	es *email.EmailSender,
) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		emailSender:  es,
	}
}

// Register creates the user record in its initial game state: full hearts,
// empty progress maps, no inventory.
func (uc *AuthUsecase) Register(ctx context.Context, username, emailAddr, password string) (string, string, error) {
	if _, err := uc.users.GetByUsername(ctx, username); err == nil {
		return "", "", domain.ErrUserAlreadyExists
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return "", "", err
	}

	user := &domain.User{
		Email:          emailAddr,
		Username:       username,
		Password:       hash,
		Sound:          true,
		Haptic:         true,
		Notifications:  true,
		Hearts:         domain.MaxHearts,
		CurrentLevel:   domain.LevelMap{},
		LettersLearned: domain.LettersMap{},
		Battlepass:     domain.SeasonEntries{},
		ItemsInventory: domain.StringList{},
		ActivatedItems: domain.ActiveEffects{},
		Achievements:   domain.StringList{},
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return "", "", err
	}
	return uc.generateAndSaveTokens(ctx, user.Email)
}

func (uc *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, string, error) {
	user, err := uc.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	return uc.generateAndSaveTokens(ctx, user.Email)
}

func (uc *AuthUsecase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	emailAddr, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", err
	}

	cached, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cached != emailAddr {
		return "", "", errors.New("token revoked")
	}
	_ = uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	return uc.generateAndSaveTokens(ctx, emailAddr)
}

func (uc *AuthUsecase) ValidateAccess(token string) (string, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

func (uc *AuthUsecase) generateAndSaveTokens(ctx context.Context, emailAddr string) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(emailAddr)
	if err != nil {
		return "", "", err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, emailAddr, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ForgotPassword stores a short-lived reset code and mails it out. The
// caller gets no signal about whether the email exists.
func (uc *AuthUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := uc.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	if err := uc.tokenCache.SaveResetCode(ctx, user.Email, code); err != nil {
		return err
	}

	go func() {
		if err := uc.emailSender.SendResetCode(user.Email, code); err != nil {
			log.Printf("ERROR: failed to send reset code to %s: %v", user.Email, err)
		}
	}()

	return nil
}

func (uc *AuthUsecase) ValidateResetCode(ctx context.Context, emailAddr, code string) error {
	stored, err := uc.tokenCache.GetResetCode(ctx, emailAddr)
	if err != nil || stored != code {
		return errors.New("invalid or expired code")
	}
	return nil
}

func (uc *AuthUsecase) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	if err := uc.ValidateResetCode(ctx, emailAddr, code); err != nil {
		return err
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, emailAddr, hash); err != nil {
		return err
	}
	return uc.tokenCache.DeleteResetCode(ctx, emailAddr)
}
