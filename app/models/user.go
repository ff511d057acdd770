package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// Legacy plan labels still stored on the user record.
const (
	LegacyPlanFree     = "Free"
	LegacyPlanBasic    = "Basic"
	LegacyPlanPremium  = "Premium"
	LegacyPlanUltimate = "Ultimate"
)

// User is a catalog member (viewer). SubscriptionPlan is the flat plan label that
// predates the subscriptions table and is kept for backward compatibility.
type User struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	Name                  string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email                 string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Role                  string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status                string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	SubscriptionPlan      string         `gorm:"column:subscription_plan;type:varchar(50);default:'Free'" json:"subscription_plan" validate:"max=50"`
	CurrentSubscriptionID *uint          `gorm:"index" json:"current_subscription_id,omitempty"`
	LastLoginAt           *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}
