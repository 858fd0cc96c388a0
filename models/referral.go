package models

import "time"

// Referral credits a referrer when an order's coupon code matches that
// user's referral code. Written best-effort after order creation.
type Referral struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferrerID  string    `gorm:"index;not null" json:"referrer_id"`
	RefereeID   string    `gorm:"index;not null" json:"referee_id"`
	Code        string    `json:"code"`
	OrderID     uint      `json:"order_id"`
	OrderAmount float64   `json:"order_amount"`
	CreatedAt   time.Time `json:"created_at"`
}
