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

type personaModel struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Likes         json.RawMessage `gorm:"type:jsonb"`
	Dislikes      json.RawMessage `gorm:"type:jsonb"`
	OtherSettings string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (personaModel) TableName() string {
	return "user_personas"
}

// PersonaRepo accesses user persona data.
type PersonaRepo struct {
	db *gorm.DB
}

func NewPersonaRepo(db *gorm.DB) *PersonaRepo {
	return &PersonaRepo{db: db}
}

func (r *PersonaRepo) Save(ctx context.Context, p *types.UserPersona) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	likes, err := marshalJSON(p.Likes)
	if err != nil {
		return fmt.Errorf("failed to encode persona likes: %w", err)
	}
	dislikes, err := marshalJSON(p.Dislikes)
	if err != nil {
		return fmt.Errorf("failed to encode persona dislikes: %w", err)
	}
	record := personaModel{
		ID:            p.ID,
		Name:          p.Name,
		Likes:         likes,
		Dislikes:      dislikes,
		OtherSettings: p.OtherSettings,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save persona: %w", err)
	}
	return nil
}

func (r *PersonaRepo) GetByID(ctx context.Context, id string) (*types.UserPersona, error) {
	var record personaModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}
	return personaFromModel(record)
}

func (r *PersonaRepo) List(ctx context.Context) ([]types.UserPersona, error) {
	var records []personaModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	results := make([]types.UserPersona, 0, len(records))
	for _, record := range records {
		p, err := personaFromModel(record)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, nil
}

func (r *PersonaRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&personaModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return nil
}

func personaFromModel(record personaModel) (*types.UserPersona, error) {
	p := types.UserPersona{
		ID:            record.ID,
		Name:          record.Name,
		OtherSettings: record.OtherSettings,
	}
	if err := unmarshalJSON(record.Likes, &p.Likes); err != nil {
		return nil, fmt.Errorf("failed to decode persona likes: %w", err)
	}
	if err := unmarshalJSON(record.Dislikes, &p.Dislikes); err != nil {
		return nil, fmt.Errorf("failed to decode persona dislikes: %w", err)
	}
	return &p, nil
}
