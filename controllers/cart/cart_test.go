package cartControllers

import (
	"testing"

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
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.PlanPrice{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	product := models.Product{
		Title:       "Daily Vitamins",
		VariantKind: models.VariantSachets,
		Currency:    "EUR",
		BasePrice:   65,
		IsActive:    true,
		Prices: []models.PlanPrice{
			{PlanType: models.PlanOneTime, VariantType: models.VariantSachets, UnitCount: 30, Amount: 65, TaxRate: 1.5},
		},
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedTrackedVariant(t *testing.T, db *gorm.DB, productID uint) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{
		ProductID:     productID,
		Name:          "Lemon",
		IsActive:      true,
		Price:         60,
		TaxRate:       1,
		TrackQuantity: true,
		Quantity:      5,
		Reserved:      2,
	}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func TestGetOrCreateCartIsLazy(t *testing.T) {
	db := setupTestDB(t)

	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.NotZero(t, cart.CartID)

	again, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.CartID, again.CartID)
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)

	item, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 65.0, item.Amount)
	assert.Equal(t, 1.5, item.TaxRate)
	assert.Equal(t, "EUR", item.Currency)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	_, err := AddItem(db, "u1", AddItemInput{ProductID: 99, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAddItemInactiveProduct(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 1})
	assert.EqualError(t, err, "Product is unavailable")
}

func TestAddItemVariantOfOtherProduct(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	other := seedProduct(t, db)
	variant := seedTrackedVariant(t, db, other.ID)

	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

// quantity=5, reserved=2: available is 3, so 3 succeeds at the exact
// boundary and 4 fails.
func TestAddItemStockBoundary(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	variant := seedTrackedVariant(t, db, product.ID)

	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 4})
	assert.EqualError(t, err, "Insufficient stock. Available: 3, Requested: 4")

	item, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItemMergeRevalidatesStock(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	variant := seedTrackedVariant(t, db, product.ID)

	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2})
	require.NoError(t, err)

	// merged total would be 4 against 3 available
	_, err = AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2})
	assert.EqualError(t, err, "Insufficient stock. Available: 3, Requested: 4")

	item, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItemBackorderSkipsStockCheck(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	variant := seedTrackedVariant(t, db, product.ID)
	require.NoError(t, db.Model(&variant).Update("allow_backorder", true).Error)

	item, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
}

func TestAddItemMergesOnlyMatchingVariant(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	variant := seedTrackedVariant(t, db, product.ID)

	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = AddItem(db, "u1", AddItemInput{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	five := 5
	require.NoError(t, UpdateItem(db, "u1", UpdateItemInput{ProductID: product.ID, Quantity: &five}))

	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateItemWithoutQuantityRemovesLine(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, UpdateItem(db, "u1", UpdateItemInput{ProductID: product.ID}))

	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateMissingItem(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)

	one := 1
	err := UpdateItem(db, "u1", UpdateItemInput{ProductID: product.ID, Quantity: &one})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRemoveItemDecrementsThenDeletes(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	one := 1
	require.NoError(t, RemoveItem(db, "u1", RemoveItemInput{ProductID: product.ID, Quantity: &one}))
	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// removing at least the remaining quantity deletes the line
	three := 3
	require.NoError(t, RemoveItem(db, "u1", RemoveItemInput{ProductID: product.ID, Quantity: &three}))
	cart, err = GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClearCartKeepsCartRecord(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	_, err := AddItem(db, "u1", AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, ClearCart(db, "u1"))

	cart, err := GetOrCreateCart(db, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCartTotals(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{Amount: 65, TaxRate: 1.5, Quantity: 2},
			{Amount: 40, TaxRate: 1, Quantity: 1},
		},
		ShippingAmount: 4.95,
		DiscountAmount: 5,
	}
	totals := Totals(cart)
	assert.Equal(t, 170.0, totals.Subtotal)
	assert.Equal(t, 4.0, totals.Tax)
	assert.Equal(t, 173.95, totals.Total)
}
