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

// characterModel maps to the characters table. Structured sub-objects are
// stored as JSONB so card imports round-trip without schema churn.
type characterModel struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	Tags            json.RawMessage `gorm:"type:jsonb"`
	FirstMessages   json.RawMessage `gorm:"type:jsonb"`
	Definition      json.RawMessage `gorm:"type:jsonb"`
	ExampleDialogue json.RawMessage `gorm:"type:jsonb"`
	Personality     string
	Appearance      string
	SpeakingStyle   string
	Scenario        string
	Background      string
	Hobbies         json.RawMessage `gorm:"type:jsonb"`
	Likes           json.RawMessage `gorm:"type:jsonb"`
	Dislikes        json.RawMessage `gorm:"type:jsonb"`
	AvatarURL       string
	Image           json.RawMessage `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (characterModel) TableName() string {
	return "characters"
}

// CharacterRepo accesses character data.
type CharacterRepo struct {
	db *gorm.DB
}

func NewCharacterRepo(db *gorm.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// Save inserts or updates a character, assigning an ID when missing.
func (r *CharacterRepo) Save(ctx context.Context, c *types.Character) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	record, err := characterToModel(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

// GetByID fetches a character by ID.
func (r *CharacterRepo) GetByID(ctx context.Context, id string) (*types.Character, error) {
	var record characterModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get character by id: %w", err)
	}
	return characterFromModel(record)
}

// GetByName fetches a character by display name.
func (r *CharacterRepo) GetByName(ctx context.Context, name string) (*types.Character, error) {
	var record characterModel
	if err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		return nil, fmt.Errorf("failed to get character by name: %w", err)
	}
	return characterFromModel(record)
}

// GetDefault fetches the first available character.
func (r *CharacterRepo) GetDefault(ctx context.Context) (*types.Character, error) {
	var record characterModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to get default character: %w", err)
	}
	return characterFromModel(record)
}

// List returns all characters ordered by creation time.
func (r *CharacterRepo) List(ctx context.Context) ([]types.Character, error) {
	var records []characterModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	results := make([]types.Character, 0, len(records))
	for _, record := range records {
		c, err := characterFromModel(record)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, nil
}

// Delete removes a character by ID.
func (r *CharacterRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&characterModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func characterToModel(c *types.Character) (*characterModel, error) {
	tags, err := marshalJSON(c.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character tags: %w", err)
	}
	firstMessages, err := marshalJSON(c.FirstMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character first messages: %w", err)
	}
	definition, err := marshalJSON(c.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character definition: %w", err)
	}
	exampleDialogue, err := marshalJSON(c.ExampleDialogue)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character example dialogue: %w", err)
	}
	hobbies, err := marshalJSON(c.Hobbies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character hobbies: %w", err)
	}
	likes, err := marshalJSON(c.Likes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character likes: %w", err)
	}
	dislikes, err := marshalJSON(c.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character dislikes: %w", err)
	}
	image, err := marshalJSON(c.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character image defaults: %w", err)
	}
	return &characterModel{
		ID:              c.ID,
		Name:            c.Name,
		Tags:            tags,
		FirstMessages:   firstMessages,
		Definition:      definition,
		ExampleDialogue: exampleDialogue,
		Personality:     c.Personality,
		Appearance:      c.Appearance,
		SpeakingStyle:   c.SpeakingStyle,
		Scenario:        c.Scenario,
		Background:      c.Background,
		Hobbies:         hobbies,
		Likes:           likes,
		Dislikes:        dislikes,
		AvatarURL:       c.AvatarURL,
		Image:           image,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}, nil
}

func characterFromModel(record characterModel) (*types.Character, error) {
	c := types.Character{
		ID:            record.ID,
		Name:          record.Name,
		Personality:   record.Personality,
		Appearance:    record.Appearance,
		SpeakingStyle: record.SpeakingStyle,
		Scenario:      record.Scenario,
		Background:    record.Background,
		AvatarURL:     record.AvatarURL,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	if err := unmarshalJSON(record.Tags, &c.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode character tags: %w", err)
	}
	if err := unmarshalJSON(record.FirstMessages, &c.FirstMessages); err != nil {
		return nil, fmt.Errorf("failed to decode character first messages: %w", err)
	}
	if err := unmarshalJSON(record.Definition, &c.Definition); err != nil {
		return nil, fmt.Errorf("failed to decode character definition: %w", err)
	}
	if err := unmarshalJSON(record.ExampleDialogue, &c.ExampleDialogue); err != nil {
		return nil, fmt.Errorf("failed to decode character example dialogue: %w", err)
	}
	if err := unmarshalJSON(record.Hobbies, &c.Hobbies); err != nil {
		return nil, fmt.Errorf("failed to decode character hobbies: %w", err)
	}
	if err := unmarshalJSON(record.Likes, &c.Likes); err != nil {
		return nil, fmt.Errorf("failed to decode character likes: %w", err)
	}
	if err := unmarshalJSON(record.Dislikes, &c.Dislikes); err != nil {
		return nil, fmt.Errorf("failed to decode character dislikes: %w", err)
	}
	if err := unmarshalJSON(record.Image, &c.Image); err != nil {
		return nil, fmt.Errorf("failed to decode character image defaults: %w", err)
	}
	return &c, nil
}
