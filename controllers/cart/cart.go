package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/pricing"
)

// -------- Request Structs --------

type AddItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  *int  `json:"quantity"` // absent removes the line entirely
}

type RemoveItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  *int  `json:"quantity"` // absent removes the line entirely
}

// -------- Core Logic --------

// GetOrCreateCart returns the user's single active cart, creating it lazily
// on first read.
func GetOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{UserID: userID}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem validates the product (and variant, including stock) and merges
// into an existing matching line or appends a new one. The price snapshot
// captured here is advisory only; order creation re-resolves every price.
func AddItem(db *gorm.DB, userID string, in AddItemInput) (*models.CartItem, error) {
	var product models.Product
	if err := db.Preload("Prices").First(&product, "id = ?", in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, apperr.Conflict("Product is unavailable")
	}

	var variant *models.ProductVariant
	if in.VariantID != nil {
		var v models.ProductVariant
		if err := db.First(&v, "id = ? AND product_id = ?", *in.VariantID, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Variant not found")
			}
			return nil, err
		}
		if !v.IsActive {
			return nil, apperr.Conflict("Variant is unavailable")
		}
		variant = &v
	}

	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	item, err := findLine(db, cart.CartID, in.ProductID, in.VariantID)
	if err != nil {
		return nil, err
	}

	newTotal := in.Quantity
	if item != nil {
		newTotal += item.Quantity
	}
	// stock is validated against the merged total, not just the delta
	if err := checkStock(variant, newTotal); err != nil {
		return nil, err
	}

	if item != nil {
		item.Quantity = newTotal
		item.AddedAt = time.Now()
		if err := db.Save(item).Error; err != nil {
			return nil, err
		}
		return item, nil
	}

	newItem := models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		AddedAt:   time.Now(),
	}
	newItem.Currency, newItem.Amount, newItem.TaxRate = snapshotPrice(&product, variant)
	if err := db.Create(&newItem).Error; err != nil {
		return nil, err
	}
	return &newItem, nil
}

// UpdateItem sets a line's quantity, or removes the line when no quantity
// is supplied.
func UpdateItem(db *gorm.DB, userID string, in UpdateItemInput) error {
	item, err := requireLine(db, userID, in.ProductID, in.VariantID)
	if err != nil {
		return err
	}

	if in.Quantity == nil {
		return db.Delete(item).Error
	}
	if *in.Quantity < 1 {
		return apperr.Validation("Quantity must be at least 1")
	}

	if item.VariantID != nil {
		var variant models.ProductVariant
		if err := db.First(&variant, "id = ?", *item.VariantID).Error; err != nil {
			return err
		}
		if err := checkStock(&variant, *in.Quantity); err != nil {
			return err
		}
	}

	item.Quantity = *in.Quantity
	item.AddedAt = time.Now()
	return db.Save(item).Error
}

// RemoveItem decrements a line's quantity; removing the last unit (or more
// than the line holds, or no quantity at all) deletes the line.
func RemoveItem(db *gorm.DB, userID string, in RemoveItemInput) error {
	item, err := requireLine(db, userID, in.ProductID, in.VariantID)
	if err != nil {
		return err
	}

	if in.Quantity == nil || *in.Quantity >= item.Quantity {
		return db.Delete(item).Error
	}
	item.Quantity -= *in.Quantity
	return db.Save(item).Error
}

// ClearCart soft-clears all lines; the cart record itself is kept.
func ClearCart(db *gorm.DB, userID string) error {
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return err
	}
	return db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}

// Totals computes the cart's pricing breakdown from its snapshots.
func Totals(cart *models.Cart) pricing.Totals {
	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, pricing.Line{
			UnitAmount: item.Amount,
			TaxAmount:  item.TaxRate,
			Quantity:   item.Quantity,
		})
	}
	return pricing.ComputeTotals(lines, cart.ShippingAmount, cart.DiscountAmount)
}

// -------- Helpers --------

// findLine matches on (product, variant); a request without a variant only
// matches lines that also have no variant.
func findLine(db *gorm.DB, cartID, productID uint, variantID *uint) (*models.CartItem, error) {
	var item models.CartItem
	q := db.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	if err := q.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func requireLine(db *gorm.DB, userID string, productID uint, variantID *uint) (*models.CartItem, error) {
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}
	item, err := findLine(db, cart.CartID, productID, variantID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("Cart item not found")
	}
	return item, nil
}

func checkStock(variant *models.ProductVariant, requested int) error {
	if variant == nil || !variant.TrackQuantity || variant.AllowBackorder {
		return nil
	}
	available := variant.Quantity - variant.Reserved
	if requested > available {
		return apperr.Conflict("Insufficient stock. Available: %d, Requested: %d", available, requested)
	}
	return nil
}

func snapshotPrice(product *models.Product, variant *models.ProductVariant) (string, float64, float64) {
	if variant != nil {
		currency := variant.Currency
		if currency == "" {
			currency = product.Currency
		}
		return currency, variant.Price, variant.TaxRate
	}
	// default to the one-time 30-count block when the product has one
	for _, p := range product.Prices {
		if p.PlanType == models.PlanOneTime && p.UnitCount == 30 {
			amount := p.Amount
			if p.DiscountedAmount != nil {
				amount = *p.DiscountedAmount
			}
			return product.Currency, amount, p.TaxRate
		}
	}
	return product.Currency, product.BasePrice, 0
}

// -------- Handlers --------

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "totals": Totals(cart)})
	}
}

// POST /user/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item, err := AddItem(db, userID, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /user/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := UpdateItem(db, userID, input); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// DELETE /user/cart/item
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var input RemoveItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := RemoveItem(db, userID, input); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if err := ClearCart(db, userID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
