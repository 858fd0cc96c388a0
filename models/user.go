package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Phone        string    `json:"phone"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture"`
	Provider     string    `json:"provider"`
	ReferralCode string    `gorm:"uniqueIndex" json:"referral_code"`
	Addresses    []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	Cart         Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders       []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address is owned by a user; orders reference shipping/billing addresses by
// id and the creation workflow verifies ownership.
type Address struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string         `gorm:"index;not null" json:"user_id"`
	Label      string         `json:"label"`
	FullName   string         `json:"full_name"`
	Phone      string         `json:"phone"`
	Country    string         `json:"country"`
	State      string         `json:"state"`
	City       string         `json:"city"`
	Street     string         `json:"street"`
	PostalCode string         `json:"postal_code"`
	IsDefault  bool           `json:"is_default"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
