package coupons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}, &models.Order{}, &models.OrderItem{}, &models.User{}))
	return db
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func activeCoupon(code string) models.Coupon {
	return models.Coupon{
		Code:         code,
		DiscountType: models.DiscountPercentage,
		Value:        10,
		IsActive:     true,
		ValidFrom:    time.Now().Add(-24 * time.Hour),
		ValidUntil:   time.Now().Add(24 * time.Hour),
	}
}

func seedOrder(t *testing.T, db *gorm.DB, number, userID, code string) models.Order {
	t.Helper()
	order := models.Order{OrderNumber: number, UserID: userID, CouponCode: code}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestValidateUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	_, err := Validate(db, Input{UserID: "u1", Code: "NOPE", OrderAmount: 100})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestValidateInactive(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("SLEEPY")
	coupon.IsActive = false
	require.NoError(t, db.Create(&coupon).Error)

	_, err := Validate(db, Input{UserID: "u1", Code: "SLEEPY", OrderAmount: 100})
	assert.EqualError(t, err, "Coupon is not active")
}

func TestValidateWindow(t *testing.T) {
	db := setupTestDB(t)

	early := activeCoupon("SOON")
	early.ValidFrom = time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&early).Error)
	_, err := Validate(db, Input{UserID: "u1", Code: "SOON", OrderAmount: 100})
	assert.EqualError(t, err, "Coupon is not yet valid")

	late := activeCoupon("GONE")
	late.ValidUntil = time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&late).Error)
	_, err = Validate(db, Input{UserID: "u1", Code: "GONE", OrderAmount: 100})
	assert.EqualError(t, err, "Coupon has expired")
}

func TestValidateGlobalUsageLimit(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("ONCE")
	coupon.UsageLimit = intPtr(1)
	require.NoError(t, db.Create(&coupon).Error)

	// a prior order by any user consumes the global cap
	seedOrder(t, db, "VTZ-1-0001", "someone-else", "ONCE")

	_, err := Validate(db, Input{UserID: "u1", Code: "ONCE", OrderAmount: 100})
	assert.EqualError(t, err, "Coupon usage limit reached")
}

func TestValidateGlobalUsageIgnoresDeletedOrders(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("ONCE")
	coupon.UsageLimit = intPtr(1)
	require.NoError(t, db.Create(&coupon).Error)

	order := seedOrder(t, db, "VTZ-1-0002", "someone-else", "ONCE")
	require.NoError(t, db.Delete(&order).Error)

	_, err := Validate(db, Input{UserID: "u1", Code: "ONCE", OrderAmount: 100})
	assert.NoError(t, err)
}

func TestValidatePerUserUsageLimit(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("PERUSER")
	coupon.UserUsageLimit = intPtr(1)
	require.NoError(t, db.Create(&coupon).Error)

	// another user's order does not trip the per-user cap
	seedOrder(t, db, "VTZ-1-0003", "u2", "PERUSER")
	_, err := Validate(db, Input{UserID: "u1", Code: "PERUSER", OrderAmount: 100})
	require.NoError(t, err)

	seedOrder(t, db, "VTZ-1-0004", "u1", "PERUSER")
	_, err = Validate(db, Input{UserID: "u1", Code: "PERUSER", OrderAmount: 100})
	assert.EqualError(t, err, "Coupon usage limit reached for this user")
}

func TestValidateMinOrderAmount(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("BIGCART")
	coupon.MinOrderAmount = floatPtr(50)
	require.NoError(t, db.Create(&coupon).Error)

	_, err := Validate(db, Input{UserID: "u1", Code: "BIGCART", OrderAmount: 49.99})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = Validate(db, Input{UserID: "u1", Code: "BIGCART", OrderAmount: 50})
	assert.NoError(t, err)
}

func TestValidateAllowList(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("TARGETED")
	coupon.AllowedProductIDs = []uint{7}
	coupon.AllowedCategoryIDs = []uint{3}
	require.NoError(t, db.Create(&coupon).Error)

	_, err := Validate(db, Input{UserID: "u1", Code: "TARGETED", OrderAmount: 100, ProductIDs: []uint{1, 2}})
	assert.EqualError(t, err, "Coupon is not applicable to the selected products")

	// a product match is enough
	_, err = Validate(db, Input{UserID: "u1", Code: "TARGETED", OrderAmount: 100, ProductIDs: []uint{7}})
	assert.NoError(t, err)

	// a category match is enough too
	_, err = Validate(db, Input{UserID: "u1", Code: "TARGETED", OrderAmount: 100, ProductIDs: []uint{1}, CategoryIDs: []uint{3}})
	assert.NoError(t, err)
}

func TestValidateDenyList(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("NOTTHAT")
	coupon.ExcludedProductIDs = []uint{9}
	require.NoError(t, db.Create(&coupon).Error)

	_, err := Validate(db, Input{UserID: "u1", Code: "NOTTHAT", OrderAmount: 100, ProductIDs: []uint{1, 9}})
	assert.EqualError(t, err, "Coupon cannot be applied to an excluded product")
}

func TestPercentageDiscountWithCap(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("TEN")
	coupon.MaxDiscountAmount = floatPtr(5)
	require.NoError(t, db.Create(&coupon).Error)

	result, err := Validate(db, Input{UserID: "u1", Code: "TEN", OrderAmount: 100})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.DiscountAmount)
}

func TestFixedDiscountClampedToOrderAmount(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("FLAT20")
	coupon.DiscountType = models.DiscountFixed
	coupon.Value = 20
	require.NoError(t, db.Create(&coupon).Error)

	result, err := Validate(db, Input{UserID: "u1", Code: "FLAT20", OrderAmount: 15})
	require.NoError(t, err)
	assert.Equal(t, 15.0, result.DiscountAmount)

	result, err = Validate(db, Input{UserID: "u1", Code: "FLAT20", OrderAmount: 100})
	require.NoError(t, err)
	assert.Equal(t, 20.0, result.DiscountAmount)
}

func TestFreeShippingDiscount(t *testing.T) {
	db := setupTestDB(t)
	coupon := activeCoupon("SHIPFREE")
	coupon.DiscountType = models.DiscountFreeShipping
	coupon.Value = 0
	require.NoError(t, db.Create(&coupon).Error)

	result, err := Validate(db, Input{UserID: "u1", Code: "SHIPFREE", OrderAmount: 100, ShippingAmount: 4.95})
	require.NoError(t, err)
	assert.True(t, result.FreeShipping)
	assert.Equal(t, 4.95, result.DiscountAmount)
}
