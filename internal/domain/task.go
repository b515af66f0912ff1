package domain

// Language is a catalog entry for a supported sign language.
type Language struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// Task is one quiz exercise. Tasks are grouped in banks by (section,
// language) and come in three versions of increasing difficulty.
type Task struct {
	TaskID     string `gorm:"primaryKey" json:"task_id"`
	Section    int    `gorm:"not null;index:idx_tasks_section_lang" json:"section"`
	LanguageID string `gorm:"not null;index:idx_tasks_section_lang" json:"language_id"`
	Version    int    `gorm:"not null" json:"version"`
	Word       string `gorm:"not null" json:"word"`
	VideoURL   string `json:"video_url,omitempty"`
}
