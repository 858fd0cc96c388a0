package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is the single active cart of a user, created lazily on first read.
// It is never hard-deleted, only soft-cleared.
type Cart struct {
	CartID         uint       `gorm:"primaryKey" json:"cart_id"`
	UserID         string     `gorm:"uniqueIndex" json:"user_id"`
	Items          []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAmount float64    `json:"shipping_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	CouponCode     string     `json:"coupon_code"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CartItem holds an advisory price snapshot captured at add-time. The
// snapshot is never trusted at order time; order creation re-resolves every
// price from the catalog.
type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CartID    uint           `gorm:"index" json:"cart_id"`
	ProductID uint           `json:"product_id"`
	VariantID *uint          `json:"variant_id"`
	Quantity  int            `json:"quantity"`
	Currency  string         `gorm:"type:VARCHAR(3)" json:"currency"`
	Amount    float64        `json:"amount"`
	TaxRate   float64        `json:"tax_rate"`
	AddedAt   time.Time      `json:"added_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
