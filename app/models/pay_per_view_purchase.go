package models

import "time"

const (
	PurchaseTypeRent = "rent"
	PurchaseTypeBuy  = "buy"
)

// PayPerViewPurchase is a single rent or buy of one content item.
// ExpiresAt only applies to rentals.
type PayPerViewPurchase struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index:idx_ppv_purchases_target,priority:1" json:"user_id"`
	TargetType   string     `gorm:"type:varchar(20);not null;index:idx_ppv_purchases_target,priority:2" json:"target_type"`
	TargetID     uint       `gorm:"not null;index:idx_ppv_purchases_target,priority:3" json:"target_id"`
	PurchaseType string     `gorm:"type:varchar(10);not null" json:"purchase_type"`
	ExpiresAt    *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
