package repository

import (
	"context"
	"errors"

	"signlearn/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Put registers the connection for the user, replacing any previous one.
// A reconnect therefore supersedes the stale connection id.
func (r *ConnectionRepository) Put(ctx context.Context, conn *domain.Connection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"connection_id"}),
		}).
		Create(conn).Error
}

func (r *ConnectionRepository) GetByConnectionID(ctx context.Context, connectionID string) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.WithContext(ctx).Where("connection_id = ?", connectionID).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrConnectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) GetByEmail(ctx context.Context, email string) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrConnectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) DeleteByConnectionID(ctx context.Context, connectionID string) error {
	return r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Delete(&domain.Connection{}).Error
}

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) Get(ctx context.Context, chatID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateConnections conditionally replaces the peer map; it fails with
// ErrVersionConflict when a concurrent join or leave got there first.
func (r *RoomRepository) UpdateConnections(ctx context.Context, chatID string, version int64, conns domain.ConnMap) error {
	result := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("chat_id = ? AND version = ?", chatID, version).
		Updates(map[string]interface{}{
			"user_connections": conns,
			"version":          version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&domain.Room{}).Error
}

// WithConnection scans for every room whose peer map names the connection.
func (r *RoomRepository) WithConnection(ctx context.Context, connectionID string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("user_connections ->> ? IS NOT NULL", connectionID).
		Find(&rooms).Error
	return rooms, err
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("sent_at asc").
		Find(&msgs).Error
	return msgs, err
}
