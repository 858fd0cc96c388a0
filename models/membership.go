package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership holds the tier discount of a member user. Row presence with
// IsActive=true makes the user a member.
type Membership struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string         `gorm:"uniqueIndex;not null" json:"user_id"`
	DiscountType  DiscountType   `gorm:"type:VARCHAR(20)" json:"discount_type"`
	DiscountValue float64        `json:"discount_value"`
	Level         int            `json:"level"`
	Label         string         `json:"label"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
