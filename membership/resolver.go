package membership

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/pricing"
)

// Resolver looks up the membership discount payload for a user. The
// discount engine treats the result as opaque input.
type Resolver interface {
	Resolve(userID string) (*pricing.Membership, error)
}

// StoreResolver reads memberships from the application database.
type StoreResolver struct {
	DB *gorm.DB
}

func NewStoreResolver(db *gorm.DB) *StoreResolver {
	return &StoreResolver{DB: db}
}

func (r *StoreResolver) Resolve(userID string) (*pricing.Membership, error) {
	var m models.Membership
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &pricing.Membership{IsMember: false}, nil
		}
		return nil, err
	}
	return &pricing.Membership{
		IsMember:      true,
		DiscountType:  m.DiscountType,
		DiscountValue: m.DiscountValue,
		Level:         m.Level,
		Label:         m.Label,
	}, nil
}
