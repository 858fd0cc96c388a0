package pricing

import (
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
)

// Subscription cycle lengths sold for sachets products.
var validCycleDays = map[int]bool{30: true, 60: true, 90: true, 180: true}

// ResolvedPrice is the authoritative unit price for one purchase
// configuration, recomputed from the catalog rather than trusted from a
// cart snapshot.
type ResolvedPrice struct {
	Name           string
	PlanType       models.PlanType
	VariantType    models.VariantType
	Currency       string
	Amount         float64 // discounted amount if present, else list amount
	ListAmount     float64
	TaxRate        float64 // flat currency amount per unit, not a percentage
	TotalAmount    float64 // Round2(Amount + TaxRate)
	DurationDays   int
	UnitCount      int
	SavingsPercent *float64
	Features       []string
}

// ResolvePrice maps a purchase configuration (variant, one-time vs
// subscription, cycle length or unit count) onto the product's price
// blocks. Pure over the loaded product.
func ResolvePrice(product *models.Product, variantType models.VariantType, isOneTime bool, planDurationDays, unitCount int) (*ResolvedPrice, error) {
	switch variantType {
	case models.VariantSachets:
		if isOneTime {
			return resolveSachetsOneTime(product, unitCount)
		}
		return resolveSachetsPlan(product, planDurationDays)
	case models.VariantStandUpPouch:
		if !isOneTime {
			return nil, apperr.Unsupported("Subscription plans are only available for Sachets")
		}
		return resolveStandupPouch(product, unitCount)
	default:
		return nil, apperr.Validation("Unknown variant type: %s", variantType)
	}
}

func resolveSachetsPlan(product *models.Product, cycleDays int) (*ResolvedPrice, error) {
	if !validCycleDays[cycleDays] {
		return nil, apperr.Unsupported("Unsupported subscription plan: %d days", cycleDays)
	}
	for i := range product.Prices {
		p := &product.Prices[i]
		if p.VariantType == models.VariantSachets && p.PlanType == models.PlanSubscription && p.DurationDays == cycleDays {
			return fromBlock(product, p), nil
		}
	}
	return nil, apperr.Unsupported("Unsupported subscription plan: %d days", cycleDays)
}

func resolveSachetsOneTime(product *models.Product, unitCount int) (*ResolvedPrice, error) {
	if unitCount == 0 {
		unitCount = 30
	}
	if unitCount != 30 && unitCount != 60 {
		return nil, apperr.Unsupported("Unsupported unit count: %d", unitCount)
	}
	for i := range product.Prices {
		p := &product.Prices[i]
		if p.VariantType == models.VariantSachets && p.PlanType == models.PlanOneTime && p.UnitCount == unitCount {
			return fromBlock(product, p), nil
		}
	}
	return nil, apperr.Unsupported("Unsupported unit count: %d", unitCount)
}

func resolveStandupPouch(product *models.Product, unitCount int) (*ResolvedPrice, error) {
	if unitCount == 0 {
		unitCount = 30
	}
	if unitCount != 30 && unitCount != 60 {
		return nil, apperr.Unsupported("Unsupported unit count: %d", unitCount)
	}
	var flat *models.PlanPrice
	for i := range product.Prices {
		p := &product.Prices[i]
		if p.VariantType != models.VariantStandUpPouch {
			continue
		}
		if p.UnitCount == unitCount {
			return fromBlock(product, p), nil
		}
		if p.UnitCount == 0 {
			flat = p
		}
	}
	// a single flat price object serves as the 30-count block
	if flat != nil && unitCount == 30 {
		resolved := fromBlock(product, flat)
		resolved.UnitCount = 30
		return resolved, nil
	}
	return nil, apperr.Unsupported("Unsupported unit count: %d", unitCount)
}

func fromBlock(product *models.Product, block *models.PlanPrice) *ResolvedPrice {
	amount := block.Amount
	if block.DiscountedAmount != nil {
		amount = *block.DiscountedAmount
	}
	currency := block.Currency
	if currency == "" {
		currency = product.Currency
	}
	return &ResolvedPrice{
		Name:           product.Title,
		PlanType:       block.PlanType,
		VariantType:    block.VariantType,
		Currency:       currency,
		Amount:         Round2(amount),
		ListAmount:     Round2(block.Amount),
		TaxRate:        block.TaxRate,
		TotalAmount:    Round2(amount + block.TaxRate),
		DurationDays:   block.DurationDays,
		UnitCount:      block.UnitCount,
		SavingsPercent: block.SavingsPercent,
		Features:       block.Features,
	}
}
