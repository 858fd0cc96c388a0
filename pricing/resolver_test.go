package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
)

func sachetsProduct() *models.Product {
	discounted := 55.0
	return &models.Product{
		ID:          1,
		Title:       "Daily Vitamins",
		VariantKind: models.VariantSachets,
		Currency:    "EUR",
		BasePrice:   65,
		Prices: []models.PlanPrice{
			{PlanType: models.PlanSubscription, VariantType: models.VariantSachets, DurationDays: 30, UnitCount: 30, Amount: 60, TaxRate: 2},
			{PlanType: models.PlanSubscription, VariantType: models.VariantSachets, DurationDays: 90, UnitCount: 90, Amount: 80, TaxRate: 2},
			{PlanType: models.PlanOneTime, VariantType: models.VariantSachets, UnitCount: 30, Amount: 65, DiscountedAmount: &discounted, TaxRate: 1.5},
			{PlanType: models.PlanOneTime, VariantType: models.VariantSachets, UnitCount: 60, Amount: 120, TaxRate: 3},
		},
	}
}

func TestResolveSubscriptionPlan(t *testing.T) {
	resolved, err := ResolvePrice(sachetsProduct(), models.VariantSachets, false, 90, 0)
	require.NoError(t, err)

	assert.Equal(t, 80.0, resolved.Amount)
	assert.Equal(t, 2.0, resolved.TaxRate)
	assert.Equal(t, 82.0, resolved.TotalAmount)
	assert.Equal(t, 90, resolved.DurationDays)
	assert.Equal(t, 90, resolved.UnitCount)
	assert.Equal(t, "EUR", resolved.Currency)
}

func TestResolveSubscriptionPlanUnsupported(t *testing.T) {
	// 45 is not a sold cycle length at all
	_, err := ResolvePrice(sachetsProduct(), models.VariantSachets, false, 45, 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnsupported))

	// 180 is a valid cycle but this product has no block for it
	_, err = ResolvePrice(sachetsProduct(), models.VariantSachets, false, 180, 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnsupported))
}

func TestResolveOneTimeDefaultsToThirty(t *testing.T) {
	resolved, err := ResolvePrice(sachetsProduct(), models.VariantSachets, true, 0, 0)
	require.NoError(t, err)

	// discounted amount wins over list amount
	assert.Equal(t, 55.0, resolved.Amount)
	assert.Equal(t, 65.0, resolved.ListAmount)
	assert.Equal(t, 56.5, resolved.TotalAmount)
	assert.Equal(t, 30, resolved.UnitCount)
}

func TestResolveOneTimeUnitCounts(t *testing.T) {
	resolved, err := ResolvePrice(sachetsProduct(), models.VariantSachets, true, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, 120.0, resolved.Amount)
	assert.Equal(t, 123.0, resolved.TotalAmount)

	_, err = ResolvePrice(sachetsProduct(), models.VariantSachets, true, 0, 45)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnsupported))
}

func TestStandupPouchForbidsSubscription(t *testing.T) {
	product := &models.Product{
		Title:       "Pouch Blend",
		VariantKind: models.VariantStandUpPouch,
		Currency:    "EUR",
		Prices: []models.PlanPrice{
			{PlanType: models.PlanOneTime, VariantType: models.VariantStandUpPouch, UnitCount: 30, Amount: 40, TaxRate: 1},
		},
	}
	_, err := ResolvePrice(product, models.VariantStandUpPouch, false, 30, 0)
	require.Error(t, err)
	assert.EqualError(t, err, "Subscription plans are only available for Sachets")
}

func TestStandupPouchFlatPriceFallback(t *testing.T) {
	// a single flat block without the 30/60 structure serves as the 30-count
	product := &models.Product{
		Title:       "Pouch Blend",
		VariantKind: models.VariantStandUpPouch,
		Currency:    "EUR",
		Prices: []models.PlanPrice{
			{PlanType: models.PlanOneTime, VariantType: models.VariantStandUpPouch, UnitCount: 0, Amount: 39.99, TaxRate: 1},
		},
	}

	resolved, err := ResolvePrice(product, models.VariantStandUpPouch, true, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 39.99, resolved.Amount)
	assert.Equal(t, 40.99, resolved.TotalAmount)
	assert.Equal(t, 30, resolved.UnitCount)

	// the fallback does not cover the 60-count
	_, err = ResolvePrice(product, models.VariantStandUpPouch, true, 0, 60)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnsupported))
}

func TestResolveUnknownVariant(t *testing.T) {
	_, err := ResolvePrice(sachetsProduct(), models.VariantType("box"), true, 0, 30)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestResolvedTotalIsRoundedHalfUp(t *testing.T) {
	product := &models.Product{
		Title:       "Edge",
		VariantKind: models.VariantSachets,
		Currency:    "EUR",
		Prices: []models.PlanPrice{
			{PlanType: models.PlanOneTime, VariantType: models.VariantSachets, UnitCount: 30, Amount: 10.005, TaxRate: 0},
		},
	}
	resolved, err := ResolvePrice(product, models.VariantSachets, true, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 10.01, resolved.TotalAmount)
}
