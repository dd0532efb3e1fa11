// Package storage provides the PostgreSQL implementation of the
// conversation store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/z-companion/backend/internal/service/chat"
)

// PostgresStore implements chatservice.Store with gorm.
type PostgresStore struct {
	db *gorm.DB
}

var _ chatservice.Store = (*PostgresStore)(nil)

// Open connects to databaseURL, verifies the connection, and migrates the
// conversation tables.
func Open(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an existing gorm handle.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates or updates the conversation tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&conversationModel{}, &messageModel{}, &emotionalStateModel{}); err != nil {
		return fmt.Errorf("failed to migrate conversation tables: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func (s *PostgresStore) CreateConversation(ctx context.Context, userID string) (chat.Conversation, error) {
	if userID == "" {
		return chat.Conversation{}, chatservice.ErrUserRequired
	}

	now := time.Now().UTC()
	record := conversationModel{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return record.toConversation(), nil
}

// GetConversation reports ErrConversationNotFound for ids that are not
// UUIDs, since no such row can exist.
func (s *PostgresStore) GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error) {
	if !validID(conversationID) {
		return chat.Conversation{}, chatservice.ErrConversationNotFound
	}

	var record conversationModel
	err := s.db.WithContext(ctx).Where("id = ?", conversationID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chat.Conversation{}, chatservice.ErrConversationNotFound
	}
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to query conversation: %w", err)
	}
	return record.toConversation(), nil
}

func (s *PostgresStore) SaveMessage(ctx context.Context, message chat.Message) (chat.Message, error) {
	if !validID(message.ConversationID) {
		return chat.Message{}, chatservice.ErrConversationNotFound
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	record, err := messageFromChat(message)
	if err != nil {
		return chat.Message{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&conversationModel{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt)
		if res.Error != nil {
			return fmt.Errorf("failed to touch conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return chatservice.ErrConversationNotFound
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}
	return message, nil
}

func (s *PostgresStore) SaveEmotionalState(ctx context.Context, state chat.EmotionalState) (chat.EmotionalState, error) {
	if state.ID == "" {
		state.ID = uuid.NewString()
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}

	if _, err := s.GetConversation(ctx, state.ConversationID); err != nil {
		return chat.EmotionalState{}, err
	}

	record, err := emotionalStateFromChat(state)
	if err != nil {
		return chat.EmotionalState{}, err
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return chat.EmotionalState{}, fmt.Errorf("failed to insert emotional state: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) LoadTranscript(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	var records []messageModel
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	messages := make([]chat.Message, 0, len(records))
	for _, record := range records {
		message, err := record.toChat()
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *PostgresStore) RecentEmotionalStates(ctx context.Context, conversationID string, limit int) ([]chat.EmotionalState, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []emotionalStateModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query emotional states: %w", err)
	}

	states := make([]chat.EmotionalState, 0, len(records))
	for _, record := range records {
		state, err := record.toChat()
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
