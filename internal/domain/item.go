package domain

const (
	ItemCategoryCoins   = "coins"
	ItemCategoryHearts  = "hearts"
	ItemCategoryChest   = "chest"
	ItemCategoryXPBoost = "xp_boost"
)

type Item struct {
	ID       string     `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"not null" json:"name"`
	Price    int64      `gorm:"not null" json:"price"`
	Category string     `gorm:"not null;index" json:"category"`
	Effect   ItemEffect `gorm:"type:jsonb" json:"effect"`
}

// Timed reports whether consuming the item produces an ActiveEffect rather
// than an immediate credit.
func (i *Item) Timed() bool {
	switch i.Category {
	case ItemCategoryCoins, ItemCategoryHearts, ItemCategoryChest:
		return false
	}
	return i.Effect.SecondsInUse > 0
}

// ChestEntry is one weighted outcome of a chest item. Exactly one of Coins
// or ItemID is meaningful; WinPercentage values of a chest sum to 100.
type ChestEntry struct {
	Coins         int64   `json:"coins,omitempty"`
	ItemID        string  `json:"item_id,omitempty"`
	WinPercentage float64 `json:"win_percentage"`
}
