package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the record tied to an order; pending payments are soft-deleted
// together with the pending order they belong to when it is superseded.
type Payment struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint           `gorm:"index" json:"order_id"`
	UserID    string         `gorm:"index" json:"user_id"`
	Reference string         `gorm:"uniqueIndex" json:"reference"`
	Method    string         `json:"method"`
	Currency  string         `gorm:"type:VARCHAR(3)" json:"currency"`
	Amount    float64        `json:"amount"`
	Status    PaymentStatus  `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
