package usecase

import (
	"context"
	"errors"
	"time"

	"signlearn/internal/domain"
)

const DefaultRefillHours = 3

type HeartsUsecase struct {
	users       UserStore
	refillEvery time.Duration
	now         func() time.Time
}

func NewHeartsUsecase(users UserStore, refillHours int) *HeartsUsecase {
	if refillHours <= 0 {
		refillHours = DefaultRefillHours
	}
	return &HeartsUsecase{
		users:       users,
		refillEvery: time.Duration(refillHours) * time.Hour,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *HeartsUsecase) WithClock(now func() time.Time) *HeartsUsecase {
	uc.now = now
	return uc
}

type HeartsState struct {
	Hearts     int    `json:"hearts"`
	NextRefill string `json:"hearts_next_refill,omitempty"`
}

// GetHearts settles any refills accrued since the stored snapshot and
// returns the current state. The row is only written when something changed.
func (uc *HeartsUsecase) GetHearts(ctx context.Context, email string) (*HeartsState, error) {
	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		hearts, refill, changed := accrueHearts(user.Hearts, user.HeartsNextRefill, uc.now(), uc.refillEvery)
		if !changed {
			return &HeartsState{Hearts: hearts, NextRefill: refill}, nil
		}

		err = uc.users.UpdateVersioned(ctx, email, user.Version, map[string]interface{}{
			"hearts":             hearts,
			"hearts_next_refill": refill,
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &HeartsState{Hearts: hearts, NextRefill: refill}, nil
	}
	return nil, domain.ErrVersionConflict
}

// ConsumeHeart spends one heart. Premium and live subscriptions with a
// valid expiration never spend hearts.
func (uc *HeartsUsecase) ConsumeHeart(ctx context.Context, email string) (*HeartsState, error) {
	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		now := uc.now()
		if user.HasUnlimitedHearts(now) {
			return &HeartsState{Hearts: user.Hearts, NextRefill: user.HeartsNextRefill}, nil
		}

		hearts, refill, err := consumeHeart(user.Hearts, user.HeartsNextRefill, now, uc.refillEvery)
		if err != nil {
			return nil, err
		}

		err = uc.users.UpdateVersioned(ctx, email, user.Version, map[string]interface{}{
			"hearts":             hearts,
			"hearts_next_refill": refill,
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &HeartsState{Hearts: hearts, NextRefill: refill}, nil
	}
	return nil, domain.ErrVersionConflict
}

// accrueHearts computes the hearts owed since the stored refill anchor.
// Each elapsed refill window grants one heart, plus the one that came due
// at the anchor itself, capped at MaxHearts. The anchor advances window by
// window until it lies in the future, or clears at full hearts.
func accrueHearts(hearts int, refillStr string, now time.Time, every time.Duration) (int, string, bool) {
	if hearts >= domain.MaxHearts {
		return domain.MaxHearts, "", refillStr != ""
	}

	refill, err := time.Parse(time.RFC3339, refillStr)
	if err != nil {
		// unparseable anchor is treated as overdue
		refill = now.Add(-1 * time.Hour)
	}

	elapsed := now.Sub(refill)
	if elapsed < 0 {
		return hearts, refillStr, false
	}

	toAdd := int(elapsed/every) + 1
	if max := domain.MaxHearts - hearts; toAdd > max {
		toAdd = max
	}
	hearts += toAdd

	if hearts >= domain.MaxHearts {
		return domain.MaxHearts, "", true
	}
	for !refill.After(now) {
		refill = refill.Add(every)
	}
	return hearts, refill.UTC().Format(time.RFC3339), true
}

// consumeHeart applies the spend transition. When the refill anchor is
// already overdue, the anchor advances but the heart is not spent; granting
// the overdue heart is GetHearts' job.
func consumeHeart(hearts int, refillStr string, now time.Time, every time.Duration) (int, string, error) {
	if hearts <= 0 {
		return 0, refillStr, domain.ErrNoHearts
	}
	if hearts >= domain.MaxHearts {
		return domain.MaxHearts - 1, now.Add(every).UTC().Format(time.RFC3339), nil
	}

	refill, err := time.Parse(time.RFC3339, refillStr)
	if err != nil {
		refill = now.Add(-1 * time.Hour)
	}

	if !refill.After(now) {
		// overdue: advance the anchor, leave hearts for the read path
		return hearts, refill.Add(every).UTC().Format(time.RFC3339), nil
	}
	return hearts - 1, refillStr, nil
}
