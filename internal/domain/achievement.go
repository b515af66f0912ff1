package domain

const (
	AchievementTypeXP         = "xp"
	AchievementTypeTimePlayed = "time_played"
	AchievementTypeLevel      = "level"
)

type Achievement struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Type     string `gorm:"not null;index" json:"type"`
	Requires int64  `gorm:"not null" json:"requires"`
}

// SatisfiedBy reports whether the user's post-update counters meet the
// achievement threshold.
func (a *Achievement) SatisfiedBy(u *User) bool {
	switch a.Type {
	case AchievementTypeXP:
		return u.XP >= a.Requires
	case AchievementTypeTimePlayed:
		return int64(u.TimePlayed) >= a.Requires
	case AchievementTypeLevel:
		best := 0
		for _, lvl := range u.CurrentLevel {
			if lvl > best {
				best = lvl
			}
		}
		return int64(best) >= a.Requires
	}
	return false
}
