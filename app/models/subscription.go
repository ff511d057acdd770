package models

import "time"

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Subscription is the normalized subscription record written by the billing flow.
// Only one subscription per user is expected to be active at a time; storage
// does not enforce it.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_subscriptions_user_status,priority:1" json:"user_id"`
	PlanID    uint      `gorm:"not null;index" json:"plan_id"`
	Plan      *Plan     `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending';index:idx_subscriptions_user_status,priority:2" json:"status"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	EndsAt    time.Time `gorm:"not null;index" json:"ends_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitling reports whether the subscription is active and unexpired at now.
func (s *Subscription) IsEntitling(now time.Time) bool {
	return s != nil && s.Status == SubscriptionStatusActive && s.EndsAt.After(now)
}
