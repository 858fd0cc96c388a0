package coupons

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/pricing"
)

// Input is everything the validation chain needs to judge a coupon against
// the current cart and caller.
type Input struct {
	UserID         string
	Code           string
	OrderAmount    float64
	ShippingAmount float64
	ProductIDs     []uint
	CategoryIDs    []uint
	Now            time.Time // zero value means time.Now()
}

// Result is a successfully validated coupon with its computed discount.
type Result struct {
	Coupon         *models.Coupon
	DiscountAmount float64
	FreeShipping   bool
}

// Meta returns the coupon metadata stamped onto orders for audit display.
func (r *Result) Meta() map[string]any {
	return map[string]any{
		"code":            r.Coupon.Code,
		"discount_type":   string(r.Coupon.DiscountType),
		"value":           r.Coupon.Value,
		"discount_amount": r.DiscountAmount,
		"free_shipping":   r.FreeShipping,
	}
}

// Validate runs the ordered rule chain against a single coupon lookup,
// short-circuiting on the first failure with a typed reason. The caller
// decides whether a failure is fatal (checkout) or advisory (order
// metadata). Usage counts are derived by counting prior non-deleted orders
// referencing the code, not from a stored counter.
func Validate(db *gorm.DB, in Input) (*Result, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", in.Code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Coupon not found")
		}
		return nil, err
	}

	if !coupon.IsActive {
		return nil, apperr.Conflict("Coupon is not active")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	if now.Before(coupon.ValidFrom) {
		return nil, apperr.Conflict("Coupon is not yet valid")
	}
	if now.After(coupon.ValidUntil) {
		return nil, apperr.Conflict("Coupon has expired")
	}

	if coupon.UsageLimit != nil {
		var used int64
		if err := db.Model(&models.Order{}).Where("coupon_code = ?", coupon.Code).Count(&used).Error; err != nil {
			return nil, err
		}
		if used >= int64(*coupon.UsageLimit) {
			return nil, apperr.Conflict("Coupon usage limit reached")
		}
	}

	if coupon.UserUsageLimit != nil {
		var used int64
		if err := db.Model(&models.Order{}).
			Where("coupon_code = ? AND user_id = ?", coupon.Code, in.UserID).
			Count(&used).Error; err != nil {
			return nil, err
		}
		if used >= int64(*coupon.UserUsageLimit) {
			return nil, apperr.Conflict("Coupon usage limit reached for this user")
		}
	}

	if coupon.MinOrderAmount != nil && in.OrderAmount < *coupon.MinOrderAmount {
		return nil, apperr.Conflict("Order amount below coupon minimum. Minimum: %.2f", *coupon.MinOrderAmount)
	}

	if len(coupon.AllowedProductIDs) > 0 || len(coupon.AllowedCategoryIDs) > 0 {
		if !intersects(in.ProductIDs, coupon.AllowedProductIDs) &&
			!intersects(in.CategoryIDs, coupon.AllowedCategoryIDs) {
			return nil, apperr.Conflict("Coupon is not applicable to the selected products")
		}
	}

	if len(coupon.ExcludedProductIDs) > 0 && intersects(in.ProductIDs, coupon.ExcludedProductIDs) {
		return nil, apperr.Conflict("Coupon cannot be applied to an excluded product")
	}

	return &Result{
		Coupon:         &coupon,
		DiscountAmount: discountFor(&coupon, in),
		FreeShipping:   coupon.DiscountType == models.DiscountFreeShipping,
	}, nil
}

func discountFor(coupon *models.Coupon, in Input) float64 {
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		amount := in.OrderAmount * coupon.Value / 100
		if coupon.MaxDiscountAmount != nil && amount > *coupon.MaxDiscountAmount {
			amount = *coupon.MaxDiscountAmount
		}
		return pricing.Round2(amount)
	case models.DiscountFixed:
		if coupon.Value > in.OrderAmount {
			return pricing.Round2(in.OrderAmount)
		}
		return pricing.Round2(coupon.Value)
	case models.DiscountFreeShipping:
		return pricing.Round2(in.ShippingAmount)
	}
	return 0
}

func intersects(have []uint, allowed []uint) bool {
	if len(allowed) == 0 {
		return false
	}
	set := make(map[uint]bool, len(allowed))
	for _, id := range allowed {
		set[id] = true
	}
	for _, id := range have {
		if set[id] {
			return true
		}
	}
	return false
}
