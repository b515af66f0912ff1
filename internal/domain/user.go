package domain

import (
	"time"
)

type Subscription int

const (
	SubscriptionFree    Subscription = 0
	SubscriptionPremium Subscription = 1
	SubscriptionLive    Subscription = 2
)

const MaxHearts = 5

type User struct {
	Email    string `gorm:"primaryKey" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`

	Sound         bool   `gorm:"default:true" json:"sound"`
	Haptic        bool   `gorm:"default:true" json:"haptic"`
	Notifications bool   `gorm:"default:true" json:"notifications"`
	Reminder      bool   `gorm:"default:false" json:"reminder"`
	Language      string `gorm:"default:'asl'" json:"language"`

	CurrentLevel   LevelMap   `gorm:"type:jsonb" json:"current_level"`
	LettersLearned LettersMap `gorm:"type:jsonb" json:"letters_learned"`

	// TimePlayed is fixed-point seconds; JSON encoding drops the fraction
	// when the value is integral (see MarshalJSON on Profile).
	TimePlayed float64 `gorm:"default:0" json:"time_played"`
	XP         int64   `gorm:"default:0" json:"xp"`
	Coins      int64   `gorm:"default:0" json:"coins"`

	Hearts int `gorm:"default:5" json:"hearts"`
	// HeartsNextRefill is an RFC3339 UTC instant, empty exactly when
	// hearts == MaxHearts. Stored as text so an unparseable value can be
	// detected and repaired instead of failing the row scan.
	HeartsNextRefill string `json:"hearts_next_refill,omitempty"`

	Subscription          Subscription `gorm:"default:0" json:"subscription"`
	SubscriptionExpiresAt time.Time    `json:"subscription_expiration_date"`

	Battlepass     SeasonEntries `gorm:"type:jsonb" json:"battlepass"`
	ItemsInventory StringList    `gorm:"type:jsonb" json:"items_inventory"`
	ActivatedItems ActiveEffects `gorm:"type:jsonb" json:"activated_items"`
	Achievements   StringList    `gorm:"type:jsonb" json:"achievements"`

	// Version guards every conditional update; a write names it in the
	// WHERE clause and bumps it, so concurrent read-modify-write cycles
	// of the list columns cannot silently overwrite each other.
	Version int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SeasonEntry is the per-user ledger for one battlepass season. There is at
// most one entry per season id.
type SeasonEntry struct {
	SeasonID      int   `json:"season_id"`
	XP            int64 `json:"xp"`
	ClaimedLevels []int `json:"claimed_levels"`
}

// ActiveEffect is a timed effect applied by consuming an item. ExpiresAt is
// strictly in the future at insertion; readers skip expired entries.
type ActiveEffect struct {
	Category  string             `json:"category"`
	Effects   map[string]float64 `json:"effects"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// SeasonEntryFor returns the user's ledger entry for the given season, or nil.
func (u *User) SeasonEntryFor(seasonID int) *SeasonEntry {
	for i := range u.Battlepass {
		if u.Battlepass[i].SeasonID == seasonID {
			return &u.Battlepass[i]
		}
	}
	return nil
}

// HasUnlimitedHearts reports whether the subscription tier waives heart
// consumption. Expired subscriptions fall back to the free behaviour.
func (u *User) HasUnlimitedHearts(now time.Time) bool {
	if u.Subscription != SubscriptionPremium && u.Subscription != SubscriptionLive {
		return false
	}
	return u.SubscriptionExpiresAt.After(now)
}

// ActiveMultiplier returns the best xp_boost multiplier among unexpired
// effects, defaulting to 1.
func (u *User) ActiveMultiplier(now time.Time) float64 {
	multiplier := 1.0
	for _, e := range u.ActivatedItems {
		if e.Category != ItemCategoryXPBoost || !e.ExpiresAt.After(now) {
			continue
		}
		if m, ok := e.Effects["multiplier"]; ok && m > multiplier {
			multiplier = m
		}
	}
	return multiplier
}
