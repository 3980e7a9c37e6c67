package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ayachat/ayachat/internal/types"
)

// sessionModel maps to the chat_sessions table. Messages live in one
// JSONB column: sessions are read and written whole, never page by page.
type sessionModel struct {
	ID          string `gorm:"primaryKey"`
	CharacterID string
	Title       string
	Messages    json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (sessionModel) TableName() string {
	return "chat_sessions"
}

// SessionRepo accesses chat session data.
type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Save(ctx context.Context, session *types.ChatSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	messages, err := marshalJSON(session.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode session messages: %w", err)
	}
	record := sessionModel{
		ID:          session.ID,
		CharacterID: session.CharacterID,
		Title:       session.Title,
		Messages:    messages,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*types.ChatSession, error) {
	var record sessionModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sessionFromModel(record)
}

// ListByCharacter returns a character's sessions, most recent first.
func (r *SessionRepo) ListByCharacter(ctx context.Context, characterID string) ([]types.ChatSession, error) {
	var records []sessionModel
	if err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	results := make([]types.ChatSession, 0, len(records))
	for _, record := range records {
		session, err := sessionFromModel(record)
		if err != nil {
			return nil, err
		}
		results = append(results, *session)
	}
	return results, nil
}

// AppendMessage adds one message to a session, persists it, and returns
// the updated session.
func (r *SessionRepo) AppendMessage(ctx context.Context, sessionID string, msg types.ChatMessage) (*types.ChatSession, error) {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = time.Now()
	if err := r.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DropLastAssistant removes the terminal assistant message so a reply can
// be regenerated. It is a no-op when the session does not end with one.
func (r *SessionRepo) DropLastAssistant(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	n := len(session.Messages)
	if n == 0 || session.Messages[n-1].Role != types.RoleAssistant {
		return session, nil
	}
	session.Messages = session.Messages[:n-1]
	session.UpdatedAt = time.Now()
	if err := r.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RollbackTo truncates the session so the given message is the last one
// kept. Unknown message IDs leave the session unchanged.
func (r *SessionRepo) RollbackTo(ctx context.Context, sessionID, messageID string) (*types.ChatSession, error) {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i, msg := range session.Messages {
		if msg.ID != messageID {
			continue
		}
		session.Messages = session.Messages[:i+1]
		session.UpdatedAt = time.Now()
		if err := r.Save(ctx, session); err != nil {
			return nil, err
		}
		break
	}
	return session, nil
}

// Reset clears all messages but keeps the session row.
func (r *SessionRepo) Reset(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Messages = nil
	session.UpdatedAt = time.Now()
	return r.Save(ctx, session)
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&sessionModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionFromModel(record sessionModel) (*types.ChatSession, error) {
	session := types.ChatSession{
		ID:          record.ID,
		CharacterID: record.CharacterID,
		Title:       record.Title,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if err := unmarshalJSON(record.Messages, &session.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode session messages: %w", err)
	}
	return &session, nil
}
