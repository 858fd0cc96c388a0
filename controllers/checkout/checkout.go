package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	cartControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/cart"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/coupons"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/membership"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/pricing"
)

type ValidateCheckoutRequest struct {
	PlanType         string  `json:"plan_type" binding:"required"`
	PlanDurationDays int     `json:"plan_duration_days"`
	ShippingAmount   float64 `json:"shipping_amount"`
	CouponCode       string  `json:"coupon_code"`
}

// Breakdown is the five-part pricing breakdown the client later submits to
// order creation. Discounts are additive against the subtotal, never
// compounded against each other's result.
type Breakdown struct {
	Currency                       string         `json:"currency"`
	Subtotal                       float64        `json:"subtotal"`
	TaxAmount                      float64        `json:"tax_amount"`
	ShippingAmount                 float64        `json:"shipping_amount"`
	CouponDiscountAmount           float64        `json:"coupon_discount_amount"`
	MembershipDiscountAmount       float64        `json:"membership_discount_amount"`
	SubscriptionPlanDiscountAmount float64        `json:"subscription_plan_discount_amount"`
	GrandTotal                     float64        `json:"grand_total"`
	FreeShipping                   bool           `json:"free_shipping"`
	CouponMeta                     map[string]any `json:"coupon_meta,omitempty"`
	MembershipMeta                 map[string]any `json:"membership_meta,omitempty"`
}

// ValidateCheckout runs the cart totals, the discount stack, and the coupon
// chain, and returns the full breakdown. A failing coupon is fatal here —
// this is the user-facing gate; order creation treats it as advisory.
func ValidateCheckout(db *gorm.DB, members membership.Resolver, userID string, req ValidateCheckoutRequest) (*Breakdown, error) {
	planType, err := mapPlanType(req.PlanType)
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Cart not found")
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.Validation("Cart is empty")
	}

	cart.ShippingAmount = req.ShippingAmount
	cart.DiscountAmount = 0
	totals := cartControllers.Totals(&cart)

	breakdown := &Breakdown{
		Currency:       currencyOf(&cart),
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.Tax,
		ShippingAmount: totals.Shipping,
	}

	member, err := members.Resolve(userID)
	if err != nil {
		return nil, err
	}
	md := pricing.ApplyMembershipDiscount(totals.Subtotal, member)
	breakdown.MembershipDiscountAmount = md.Amount
	breakdown.MembershipMeta = md.Metadata

	promo := pricing.Apply90DaySubscriptionDiscount(totals.Subtotal, planType, req.PlanDurationDays)
	breakdown.SubscriptionPlanDiscountAmount = promo.Amount

	if req.CouponCode != "" {
		productIDs, categoryIDs, err := cartSelection(db, &cart)
		if err != nil {
			return nil, err
		}
		result, err := coupons.Validate(db, coupons.Input{
			UserID:         userID,
			Code:           req.CouponCode,
			OrderAmount:    totals.Subtotal,
			ShippingAmount: req.ShippingAmount,
			ProductIDs:     productIDs,
			CategoryIDs:    categoryIDs,
		})
		if err != nil {
			return nil, err
		}
		breakdown.CouponDiscountAmount = result.DiscountAmount
		breakdown.FreeShipping = result.FreeShipping
		breakdown.CouponMeta = result.Meta()
	}

	breakdown.GrandTotal = pricing.Round2(
		breakdown.Subtotal + breakdown.TaxAmount + breakdown.ShippingAmount -
			breakdown.CouponDiscountAmount - breakdown.MembershipDiscountAmount -
			breakdown.SubscriptionPlanDiscountAmount)
	if breakdown.FreeShipping {
		breakdown.ShippingAmount = 0
	}
	return breakdown, nil
}

func mapPlanType(planType string) (models.PlanType, error) {
	switch models.PlanType(planType) {
	case models.PlanOneTime:
		return models.PlanOneTime, nil
	case models.PlanSubscription:
		return models.PlanSubscription, nil
	default:
		return "", apperr.Validation("Invalid plan type: %s", planType)
	}
}

func currencyOf(cart *models.Cart) string {
	for _, item := range cart.Items {
		if item.Currency != "" {
			return item.Currency
		}
	}
	return "EUR"
}

// cartSelection collects the product and category ids of the cart for
// coupon eligibility checks.
func cartSelection(db *gorm.DB, cart *models.Cart) ([]uint, []uint, error) {
	productIDs := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	var products []models.Product
	if err := db.Preload("Categories").Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, nil, err
	}
	seen := make(map[uint]bool)
	var categoryIDs []uint
	for _, p := range products {
		for _, cat := range p.Categories {
			if !seen[cat.ID] {
				seen[cat.ID] = true
				categoryIDs = append(categoryIDs, cat.ID)
			}
		}
	}
	return productIDs, categoryIDs, nil
}

// POST /user/checkout/validate
func ValidateCheckoutHandler(db *gorm.DB, members membership.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var req ValidateCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		breakdown, err := ValidateCheckout(db, members, userID, req)
		if err != nil {
			c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, breakdown)
	}
}
