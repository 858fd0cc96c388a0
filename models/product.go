package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VariantType string
type PlanType string

const (
	// Packaging variants a product can be sold in
	VariantSachets      VariantType = "sachets"
	VariantStandUpPouch VariantType = "stand_up_pouch"

	// Purchase plans
	PlanOneTime      PlanType = "one_time"     // non-recurring, sized by unit count
	PlanSubscription PlanType = "subscription" // recurring, sized by cycle length
)

type Product struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string           `gorm:"not null" json:"title"`
	Description     string           `json:"description"`
	VariantKind     VariantType      `gorm:"type:VARCHAR(20);not null" json:"variant_kind"`
	HasStandupPouch bool             `json:"has_standup_pouch"`
	Currency        string           `gorm:"type:VARCHAR(3);default:'EUR'" json:"currency"`
	BasePrice       float64          `gorm:"not null" json:"base_price"`
	Image           string           `json:"image"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	Prices          []PlanPrice      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"prices"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	Categories      []Category       `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// PlanPrice is one sellable price block of a product: a subscription cycle
// (sachets only, 30/60/90/180 days), a one-time unit count (30/60), or the
// stand-up pouch price. TaxRate is a flat currency amount added per unit,
// not a percentage.
type PlanPrice struct {
	ID               uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        uint                        `gorm:"index" json:"product_id"`
	PlanType         PlanType                    `gorm:"type:VARCHAR(20);not null" json:"plan_type"`
	VariantType      VariantType                 `gorm:"type:VARCHAR(20);not null" json:"variant_type"`
	DurationDays     int                         `json:"duration_days"` // subscription cycle length; 0 for one-time blocks
	UnitCount        int                         `json:"unit_count"`    // 30 or 60; 0 marks a flat stand-up pouch block
	Currency         string                      `gorm:"type:VARCHAR(3)" json:"currency"`
	Amount           float64                     `gorm:"not null" json:"amount"`
	DiscountedAmount *float64                    `json:"discounted_amount"`
	TaxRate          float64                     `json:"tax_rate"`
	SavingsPercent   *float64                    `json:"savings_percent"`
	Features         datatypes.JSONSlice[string] `json:"features"`
}

// ProductVariant is a concrete stockable variation of a product. Available
// stock is Quantity minus Reserved when tracking is enabled.
type ProductVariant struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID      uint           `gorm:"index" json:"product_id"`
	Name           string         `json:"name"`
	SKU            string         `gorm:"index" json:"sku"`
	Currency       string         `gorm:"type:VARCHAR(3)" json:"currency"`
	Price          float64        `json:"price"`
	TaxRate        float64        `json:"tax_rate"`
	TrackQuantity  bool           `json:"track_quantity"`
	AllowBackorder bool           `json:"allow_backorder"`
	Quantity       int            `json:"quantity"`
	Reserved       int            `json:"reserved"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
