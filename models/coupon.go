package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "free_shipping"
)

// Coupon usage is not tracked with a running counter; validation counts
// prior non-deleted orders referencing the code.
type Coupon struct {
	ID                 uint                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string                    `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType       DiscountType              `gorm:"type:VARCHAR(20);not null" json:"discount_type"`
	Value              float64                   `json:"value"`
	MaxDiscountAmount  *float64                  `json:"max_discount_amount"`
	MinOrderAmount     *float64                  `json:"min_order_amount"`
	ValidFrom          time.Time                 `json:"valid_from"`
	ValidUntil         time.Time                 `json:"valid_until"`
	IsActive           bool                      `gorm:"default:true" json:"is_active"`
	UsageLimit         *int                      `json:"usage_limit"`
	UserUsageLimit     *int                      `json:"user_usage_limit"`
	AllowedProductIDs  datatypes.JSONSlice[uint] `json:"allowed_product_ids"`
	AllowedCategoryIDs datatypes.JSONSlice[uint] `json:"allowed_category_ids"`
	ExcludedProductIDs datatypes.JSONSlice[uint] `json:"excluded_product_ids"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
	DeletedAt          gorm.DeletedAt            `gorm:"index" json:"-"`
}
