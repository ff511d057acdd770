package models

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Setting represents a system setting
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:50;not null" json:"type" validate:"required"` // string, boolean
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SettingSiteTitle             = "site_title"
	SettingAccessControlDisabled = "access_control_disabled"
)

// AppSettings represents the application settings structure
type AppSettings struct {
	SiteTitle string `json:"site_title" validate:"required,min=1,max=255"`
	// DisableAccessControl turns every entitlement check into a grant.
	DisableAccessControl bool `json:"access_control_disabled"`
	mu                   sync.RWMutex
}

// Global settings instance
var (
	appSettings *AppSettings
	settingsMu  sync.RWMutex
)

// GetAppSettings returns the current application settings
func GetAppSettings() *AppSettings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return appSettings
}

// DefaultAppSettings returns the settings used before anything is loaded.
func DefaultAppSettings(accessControlDisabled bool) *AppSettings {
	return &AppSettings{
		SiteTitle:            "CineFox",
		DisableAccessControl: accessControlDisabled,
	}
}

// LoadSettings loads settings from database into memory. defaults supplies values
// for keys that have no row yet.
func LoadSettings(db *gorm.DB, defaults *AppSettings) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	loaded := &AppSettings{
		SiteTitle:            defaults.SiteTitle,
		DisableAccessControl: defaults.DisableAccessControl,
	}

	var settings []Setting
	if err := db.Find(&settings).Error; err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	for _, setting := range settings {
		switch setting.Key {
		case SettingSiteTitle:
			loaded.SiteTitle = setting.Value
		case SettingAccessControlDisabled:
			if v, err := strconv.ParseBool(setting.Value); err == nil {
				loaded.DisableAccessControl = v
			}
		}
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	appSettings = loaded
	return nil
}

// SetAppSettings replaces the in-memory settings without touching the database.
func SetAppSettings(settings *AppSettings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	appSettings = settings
}

// SettingType returns the stored type of a setting based on its key
func SettingType(key string) string {
	switch key {
	case SettingAccessControlDisabled:
		return "boolean"
	default:
		return "string"
	}
}

// Validate validates the settings
func (s *AppSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// GetSiteTitle returns the site title
func (s *AppSettings) GetSiteTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SiteTitle
}

// WithAccessControlDisabled returns a copy of the settings with the kill-switch set to disabled.
func (s *AppSettings) WithAccessControlDisabled(disabled bool) *AppSettings {
	if s == nil {
		return DefaultAppSettings(disabled)
	}
	return &AppSettings{
		SiteTitle:            s.GetSiteTitle(),
		DisableAccessControl: disabled,
	}
}

// AccessControlDisabled reports whether the entitlement kill-switch is set.
// A nil receiver means settings were never loaded and access control stays on.
func (s *AppSettings) AccessControlDisabled() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.DisableAccessControl
}
