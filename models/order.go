package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending     OrderStatus = "pending"       // Order placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // Confirmed after payment
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // Packed and ready for dispatch
	OrderStatusShipped     OrderStatus = "shipped"       // Out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"     // Customer received the item
	OrderStatusReturned    OrderStatus = "returned"      // Customer returned the item
	OrderStatusCancelled   OrderStatus = "cancelled"     // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

// Order is created from a cart snapshot and is immutable once paid. At most
// one pending/pending-payment order exists per user; prior ones are
// soft-deleted when a new order is created.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      string      `gorm:"index;not null" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	PlanType    PlanType    `gorm:"type:VARCHAR(20)" json:"plan_type"`
	VariantType VariantType `gorm:"type:VARCHAR(20)" json:"variant_type"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	Currency                       string  `gorm:"type:VARCHAR(3)" json:"currency"`
	Subtotal                       float64 `json:"subtotal"`
	CouponDiscountAmount           float64 `json:"coupon_discount_amount"`
	MembershipDiscountAmount       float64 `json:"membership_discount_amount"`
	SubscriptionPlanDiscountAmount float64 `json:"subscription_plan_discount_amount"`
	TaxAmount                      float64 `json:"tax_amount"`
	ShippingAmount                 float64 `json:"shipping_amount"`
	GrandTotal                     float64 `json:"grand_total"`

	ShippingAddressID uint   `json:"shipping_address_id"`
	BillingAddressID  *uint  `json:"billing_address_id"`
	PaymentMethod     string `json:"payment_method"`

	CouponCode     string            `gorm:"index" json:"coupon_code"`
	CouponMeta     datatypes.JSONMap `json:"coupon_meta"`
	MembershipMeta datatypes.JSONMap `json:"membership_meta"`
	Metadata       datatypes.JSONMap `json:"metadata"`

	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`

	ShippedAt   *time.Time     `json:"shipped_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem carries the authoritative per-unit breakdown resolved from the
// catalog at creation time, not the cart's advisory snapshot.
type OrderItem struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	OrderID          uint                        `gorm:"index" json:"order_id"`
	ProductID        uint                        `json:"product_id"`
	VariantID        *uint                       `json:"variant_id"`
	Name             string                      `json:"name"`
	Quantity         int                         `json:"quantity"`
	Amount           float64                     `json:"amount"`
	DiscountedAmount *float64                    `json:"discounted_amount"`
	TaxRate          float64                     `json:"tax_rate"`
	TotalAmount      float64                     `json:"total_amount"`
	DurationDays     int                         `json:"duration_days"`
	UnitCount        int                         `json:"unit_count"`
	SavingsPercent   *float64                    `json:"savings_percent"`
	Features         datatypes.JSONSlice[string] `json:"features"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`
}
