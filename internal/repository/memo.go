package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/ayachat/ayachat/internal/types"
)

// memoModel maps to the chat_memos table.
type memoModel struct {
	ID          string `gorm:"primaryKey"`
	MessageID   string
	SessionID   string
	CharacterID string
	Content     string
	Note        string
	Tags        json.RawMessage `gorm:"type:jsonb"`
	IsAIMemory  bool            `gorm:"column:is_ai_memory"`
	Importance  int
	// Embedding stores the note vector for similarity search.
	Embedding *pgvector.Vector `gorm:"type:vector"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (memoModel) TableName() string {
	return "chat_memos"
}

// MemoRepo accesses memo data.
type MemoRepo struct {
	db *gorm.DB
}

func NewMemoRepo(db *gorm.DB) *MemoRepo {
	return &MemoRepo{db: db}
}

// Save inserts or updates a memo with its note embedding. A nil embedding
// keeps the memo out of similarity search but not out of recall.
func (r *MemoRepo) Save(ctx context.Context, memo *types.ChatMemo, embedding []float32) error {
	if memo.ID == "" {
		memo.ID = uuid.NewString()
	}
	var vector *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vector = &v
	}
	tags, err := marshalJSON(memo.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode memo tags: %w", err)
	}
	record := memoModel{
		ID:          memo.ID,
		MessageID:   memo.MessageID,
		SessionID:   memo.SessionID,
		CharacterID: memo.CharacterID,
		Content:     memo.Content,
		Note:        memo.Note,
		Tags:        tags,
		IsAIMemory:  memo.IsAIMemory,
		Importance:  memo.Importance,
		Embedding:   vector,
		CreatedAt:   memo.CreatedAt,
		UpdatedAt:   memo.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save memo: %w", err)
	}
	return nil
}

// ListByCharacter returns all memos for one character, newest first.
func (r *MemoRepo) ListByCharacter(ctx context.Context, characterID string) ([]types.ChatMemo, error) {
	var records []memoModel
	if err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query memos: %w", err)
	}
	results := make([]types.ChatMemo, 0, len(records))
	for _, record := range records {
		memo, err := memoFromModel(record)
		if err != nil {
			return nil, err
		}
		results = append(results, *memo)
	}
	return results, nil
}

// SearchSimilar finds memos whose note embedding is close to the query
// embedding, filtered by cosine similarity threshold.
func (r *MemoRepo) SearchSimilar(ctx context.Context, characterID string, embedding []float32, topK int, threshold float64) ([]types.ChatMemo, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, message_id, session_id, character_id, content, note, tags,
		       is_ai_memory, importance, created_at, updated_at
		FROM chat_memos
		WHERE character_id = $2
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) > $3
		ORDER BY 1 - (embedding <=> $1) DESC
		LIMIT $4`

	vector := pgvector.NewVector(embedding)
	var records []memoModel
	if err := r.db.WithContext(ctx).
		Raw(query, vector, characterID, threshold, topK).
		Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar memos: %w", err)
	}

	results := make([]types.ChatMemo, 0, len(records))
	for _, record := range records {
		memo, err := memoFromModel(record)
		if err != nil {
			return nil, err
		}
		results = append(results, *memo)
	}
	return results, nil
}

// Delete removes one memo by ID.
func (r *MemoRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&memoModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	return nil
}

// DeleteMany removes a batch of memos, used when pruning excess memories.
func (r *MemoRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&memoModel{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	return nil
}

func memoFromModel(record memoModel) (*types.ChatMemo, error) {
	memo := types.ChatMemo{
		ID:          record.ID,
		MessageID:   record.MessageID,
		SessionID:   record.SessionID,
		CharacterID: record.CharacterID,
		Content:     record.Content,
		Note:        record.Note,
		IsAIMemory:  record.IsAIMemory,
		Importance:  record.Importance,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if err := unmarshalJSON(record.Tags, &memo.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode memo tags: %w", err)
	}
	return &memo, nil
}
