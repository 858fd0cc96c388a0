package pricing

import "github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"

// Flat promotion applied to 90-day subscription cycles.
const ninetyDayPromoPercent = 15.0

// Membership is the payload resolved by the membership lookup and fed into
// the discount stack.
type Membership struct {
	IsMember      bool
	DiscountType  models.DiscountType
	DiscountValue float64
	Level         int
	Label         string
}

// Discount is one computed discount line with metadata for audit display.
type Discount struct {
	Amount   float64
	Metadata map[string]any
}

// ApplyMembershipDiscount computes the membership-tier discount against the
// given base. Clamped to [0, base], rounded to 2 decimals.
func ApplyMembershipDiscount(baseAmount float64, m *Membership) Discount {
	if m == nil || !m.IsMember || m.DiscountValue <= 0 {
		return Discount{}
	}
	amount := m.DiscountValue
	if m.DiscountType == models.DiscountPercentage {
		amount = baseAmount * m.DiscountValue / 100
	}
	if amount > baseAmount {
		amount = baseAmount
	}
	if amount < 0 {
		amount = 0
	}
	return Discount{
		Amount: Round2(amount),
		Metadata: map[string]any{
			"level":          m.Level,
			"label":          m.Label,
			"discount_type":  string(m.DiscountType),
			"discount_value": m.DiscountValue,
		},
	}
}

// Apply90DaySubscriptionDiscount grants a flat 15% off the pre-discount
// base, only for 90-day subscription orders. Computed independently of the
// membership discount against the same base; the caller subtracts both from
// the grand total (additive, never compounded).
func Apply90DaySubscriptionDiscount(baseAmount float64, planType models.PlanType, cycleDays int) Discount {
	if planType != models.PlanSubscription || cycleDays != 90 {
		return Discount{}
	}
	return Discount{
		Amount: Round2(baseAmount * ninetyDayPromoPercent / 100),
		Metadata: map[string]any{
			"percent":    ninetyDayPromoPercent,
			"cycle_days": 90,
		},
	}
}
