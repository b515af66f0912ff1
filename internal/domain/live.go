package domain

import "time"

// Connection ties an authenticated user to a live WebSocket connection.
// It exists from $connect until $disconnect (or stale teardown).
type Connection struct {
	Email        string `gorm:"primaryKey" json:"email"`
	ConnectionID string `gorm:"uniqueIndex;not null" json:"connection_id"`
}

// Room is a live-session room: connection id -> peer id. A connection id
// appears in at most one room at a time. The room is deleted when the last
// member leaves.
type Room struct {
	ChatID          string  `gorm:"primaryKey" json:"chat_id"`
	UserConnections ConnMap `gorm:"type:jsonb" json:"user_connections"`
	Version         int64   `gorm:"not null;default:0" json:"-"`
}

// Message is one persisted chat message.
type Message struct {
	MessageID string    `gorm:"primaryKey" json:"message_id"`
	ChatID    string    `gorm:"not null;index" json:"chat_id"`
	SentFrom  string    `gorm:"not null" json:"sent_from"`
	Body      string    `gorm:"not null" json:"message"`
	SentAt    time.Time `gorm:"not null" json:"sent_at"`
}
