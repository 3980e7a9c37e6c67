package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ayachat/ayachat/internal/types"
)

// settingsModel is a single-row table holding the whole settings record
// as JSONB.
type settingsModel struct {
	ID        int             `gorm:"primaryKey"`
	Data      json.RawMessage `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (settingsModel) TableName() string {
	return "app_settings"
}

const settingsRowID = 1

// SettingsRepo accesses the application settings record.
type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Load returns the stored settings, or the defaults when none exist yet.
func (r *SettingsRepo) Load(ctx context.Context) (types.AppSettings, error) {
	var record settingsModel
	err := r.db.WithContext(ctx).First(&record, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.DefaultSettings(), nil
	}
	if err != nil {
		return types.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := types.DefaultSettings()
	if err := unmarshalJSON(record.Data, &settings); err != nil {
		return types.AppSettings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// Store persists the settings record.
func (r *SettingsRepo) Store(ctx context.Context, settings types.AppSettings) error {
	data, err := marshalJSON(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	record := settingsModel{ID: settingsRowID, Data: data, UpdatedAt: time.Now()}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}
