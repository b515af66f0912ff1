package domain

import "time"

// Season is an authored battlepass season; immutable after seeding.
type Season struct {
	Season    int          `gorm:"primaryKey" json:"season"`
	Name      string       `gorm:"not null" json:"name"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	EndDate   time.Time    `gorm:"not null" json:"end_date"`
	Levels    SeasonLevels `gorm:"type:jsonb" json:"levels"`
}

// SeasonLevel is one reward tier. RequiredXP is the delta from the previous
// tier, not an absolute threshold.
type SeasonLevel struct {
	Level      int   `json:"level"`
	Coins      int64 `json:"coins"`
	RequiredXP int64 `json:"required_xp"`
}

// Active reports whether now falls inside the season window (inclusive).
func (s *Season) Active(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// TierFor returns the tier for the given level, or nil.
func (s *Season) TierFor(level int) *SeasonLevel {
	for i := range s.Levels {
		if s.Levels[i].Level == level {
			return &s.Levels[i]
		}
	}
	return nil
}

// CumulativeXP sums the required_xp deltas of every tier up to and including
// the given level.
func (s *Season) CumulativeXP(level int) int64 {
	var total int64
	for _, l := range s.Levels {
		if l.Level <= level {
			total += l.RequiredXP
		}
	}
	return total
}
