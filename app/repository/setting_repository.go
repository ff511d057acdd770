package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/ManuelReschke/CineFox/app/models"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetValue retrieves a specific setting value by key
func (r *settingRepository) GetValue(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil // Return empty string for non-existent settings
		}
		return "", err
	}
	return setting.Value, nil
}

// SetValue sets a specific setting value by key
func (r *settingRepository) SetValue(ctx context.Context, key, value string) error {
	db := r.db.WithContext(ctx)
	var setting models.Setting
	err := db.Where("setting_key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			Key:   key,
			Value: value,
			Type:  models.SettingType(key),
		}
		return db.Create(&setting).Error
	} else if err != nil {
		return err
	}

	setting.Value = value
	return db.Save(&setting).Error
}

// RefreshAccessControl re-reads the kill-switch row and swaps the in-memory
// settings when it changed. A missing or unparsable row keeps the current value.
func RefreshAccessControl(ctx context.Context, settings SettingRepository) (changed bool, err error) {
	raw, err := settings.GetValue(ctx, models.SettingAccessControlDisabled)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	disabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}

	current := models.GetAppSettings()
	if current.AccessControlDisabled() == disabled && current != nil {
		return false, nil
	}
	models.SetAppSettings(current.WithAccessControlDisabled(disabled))
	return true, nil
}
