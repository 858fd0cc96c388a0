package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/apperr"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/coupons"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/membership"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/notify"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/pricing"
)

// -------- Request Structs --------

type CreateOrderRequest struct {
	VariantType      string `json:"variant_type" binding:"required"`
	PlanType         string `json:"plan_type" binding:"required"`
	PlanDurationDays int    `json:"plan_duration_days"`
	UnitCount        int    `json:"unit_count"`

	ShippingAddressID uint   `json:"shipping_address_id" binding:"required"`
	BillingAddressID  *uint  `json:"billing_address_id"`
	PaymentMethod     string `json:"payment_method" binding:"required"`
	CouponCode        string `json:"coupon_code"`
	Currency          string `json:"currency"`

	// Aggregate figures produced by the earlier checkout validation from the
	// same resolved per-item prices. Checked for sanity, not recomputed.
	Subtotal                       float64 `json:"subtotal"`
	CouponDiscountAmount           float64 `json:"coupon_discount_amount"`
	MembershipDiscountAmount       float64 `json:"membership_discount_amount"`
	SubscriptionPlanDiscountAmount float64 `json:"subscription_plan_discount_amount"`
	TaxAmount                      float64 `json:"tax_amount"`
	ShippingAmount                 float64 `json:"shipping_amount"`
	GrandTotal                     float64 `json:"grand_total"`

	Metadata map[string]any `json:"metadata"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// Deps are the external collaborators the workflow talks to.
type Deps struct {
	Members  membership.Resolver
	Notifier notify.Dispatcher
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(strings.ToLower(status)) {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusReadyToShip,
		models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusReturned,
		models.OrderStatusCancelled:
		return models.OrderStatus(strings.ToLower(status)), nil
	default:
		return "", apperr.Validation("Invalid order status: %s", status)
	}
}

func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch models.PaymentStatus(strings.ToLower(status)) {
	case models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return models.PaymentStatus(strings.ToLower(status)), nil
	default:
		return "", apperr.Validation("Invalid payment status: %s", status)
	}
}

func mapVariantType(variant string) (models.VariantType, error) {
	switch models.VariantType(variant) {
	case models.VariantSachets:
		return models.VariantSachets, nil
	case models.VariantStandUpPouch:
		return models.VariantStandUpPouch, nil
	default:
		return "", apperr.Validation("Invalid variant type: %s", variant)
	}
}

func mapPlanType(plan string) (models.PlanType, error) {
	switch models.PlanType(plan) {
	case models.PlanOneTime:
		return models.PlanOneTime, nil
	case models.PlanSubscription:
		return models.PlanSubscription, nil
	default:
		return "", apperr.Validation("Invalid plan type: %s", plan)
	}
}

var subscriptionCycles = map[int]bool{30: true, 60: true, 90: true, 180: true}

// generateOrderNumber yields VTZ-<epoch-ms>-<4-digit-random>.
func generateOrderNumber() string {
	return fmt.Sprintf("VTZ-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "EUR"
	}
	return currency
}

// -------- Core Logic --------

// supersedePendingOrders soft-deletes every pending/pending-payment order of
// the user and their pending payments, keeping at most one in-flight order
// per user. Failures are logged, never fatal: the invariant is best-effort
// at creation time, not a storage-level exclusion.
func supersedePendingOrders(db *gorm.DB, userID string) {
	var stale []models.Order
	if err := db.Where("user_id = ? AND status = ? AND payment_status = ?",
		userID, models.OrderStatusPending, models.PaymentStatusPending).
		Find(&stale).Error; err != nil {
		log.Printf("⚠️ Failed to look up stale pending orders for %s: %v", userID, err)
		return
	}
	for _, order := range stale {
		if err := db.Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusPending).
			Delete(&models.Payment{}).Error; err != nil {
			log.Printf("⚠️ Failed to clean up payments of order %s: %v", order.OrderNumber, err)
		}
		if err := db.Delete(&order).Error; err != nil {
			log.Printf("⚠️ Failed to supersede pending order %s: %v", order.OrderNumber, err)
		}
	}
}

// CreateOrder converts the user's cart into a persisted order. Prices are
// re-resolved from the catalog for every line; the cart's snapshots are
// never trusted. Coupon resolution and post-creation side effects are
// best-effort and never abort the order.
func CreateOrder(db *gorm.DB, deps Deps, userID string, req CreateOrderRequest) (*models.Order, error) {
	// 1. best-effort cleanup of earlier unpaid orders
	supersedePendingOrders(db, userID)

	// 2. the cart must exist, belong to the user, and be non-empty
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

	// 3. variant/plan validation
	variantType, err := mapVariantType(req.VariantType)
	if err != nil {
		return nil, err
	}
	planType, err := mapPlanType(req.PlanType)
	if err != nil {
		return nil, err
	}
	if planType == models.PlanSubscription {
		if variantType == models.VariantStandUpPouch {
			return nil, apperr.Unsupported("Subscription plans are only available for Sachets")
		}
		if !subscriptionCycles[req.PlanDurationDays] {
			return nil, apperr.Validation("Invalid plan duration: %d days", req.PlanDurationDays)
		}
	}

	// 4. address ownership
	var shipping models.Address
	if err := db.First(&shipping, "id = ? AND user_id = ?", req.ShippingAddressID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Shipping address not found")
		}
		return nil, err
	}
	if req.BillingAddressID != nil {
		var billing models.Address
		if err := db.First(&billing, "id = ? AND user_id = ?", *req.BillingAddressID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Billing address not found")
			}
			return nil, err
		}
	}

	// 5. authoritative per-item re-pricing from the catalog
	orderItems, err := resolveItems(db, &cart, variantType, planType, req.PlanDurationDays, req.UnitCount)
	if err != nil {
		return nil, err
	}

	// 6. caller-supplied aggregates: sanity-checked, not recomputed
	if err := checkAggregates(req); err != nil {
		return nil, err
	}

	// 7. advisory coupon resolution for order metadata
	var couponMeta map[string]any
	if req.CouponCode != "" {
		productIDs, categoryIDs, err := cartScope(db, &cart)
		if err != nil {
			return nil, err
		}
		result, err := coupons.Validate(db, coupons.Input{
			UserID:         userID,
			Code:           req.CouponCode,
			OrderAmount:    req.Subtotal,
			ShippingAmount: req.ShippingAmount,
			ProductIDs:     productIDs,
			CategoryIDs:    categoryIDs,
		})
		if err != nil {
			log.Printf("⚠️ Coupon %q did not validate at order time: %v", req.CouponCode, err)
		} else {
			couponMeta = result.Meta()
		}
	}

	var membershipMeta map[string]any
	if deps.Members != nil {
		if member, err := deps.Members.Resolve(userID); err != nil {
			log.Printf("⚠️ Membership lookup failed for %s: %v", userID, err)
		} else if member != nil && member.IsMember {
			membershipMeta = pricing.ApplyMembershipDiscount(req.Subtotal, member).Metadata
		}
	}

	// 8. persist
	order := models.Order{
		OrderNumber:                    generateOrderNumber(),
		UserID:                         userID,
		PlanType:                       planType,
		VariantType:                    variantType,
		Items:                          orderItems,
		Currency:                       normalizeCurrency(req.Currency),
		Subtotal:                       pricing.Round2(req.Subtotal),
		CouponDiscountAmount:           pricing.Round2(req.CouponDiscountAmount),
		MembershipDiscountAmount:       pricing.Round2(req.MembershipDiscountAmount),
		SubscriptionPlanDiscountAmount: pricing.Round2(req.SubscriptionPlanDiscountAmount),
		TaxAmount:                      pricing.Round2(req.TaxAmount),
		ShippingAmount:                 pricing.Round2(req.ShippingAmount),
		GrandTotal:                     pricing.Round2(req.GrandTotal),
		ShippingAddressID:              req.ShippingAddressID,
		BillingAddressID:               req.BillingAddressID,
		PaymentMethod:                  req.PaymentMethod,
		CouponCode:                     req.CouponCode,
		CouponMeta:                     couponMeta,
		MembershipMeta:                 membershipMeta,
		Metadata:                       datatypes.JSONMap(req.Metadata),
		Status:                         models.OrderStatusPending,
		PaymentStatus:                  models.PaymentStatusPending,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		payment := models.Payment{
			OrderID:   order.ID,
			UserID:    userID,
			Reference: uuid.NewString(),
			Method:    req.PaymentMethod,
			Currency:  order.Currency,
			Amount:    order.GrandTotal,
			Status:    models.PaymentStatusPending,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	// 9. best-effort side effects
	if deps.Notifier != nil {
		deps.Notifier.OrderPlaced(userID, order.ID, order.OrderNumber)
	}
	recordReferral(db, userID, &order)

	return &order, nil
}

// resolveItems re-derives every line's price from the product catalog and
// rejects carts whose products do not sell the requested variant.
func resolveItems(db *gorm.DB, cart *models.Cart, variantType models.VariantType, planType models.PlanType, cycleDays, unitCount int) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		var product models.Product
		if err := db.Preload("Prices").First(&product, "id = ?", line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Product %d is no longer available", line.ProductID)
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, apperr.Conflict("Product %q is unavailable", product.Title)
		}
		if !sellsVariant(&product, variantType) {
			return nil, apperr.Validation("Cart contains items of a different packaging variant")
		}

		resolved, err := pricing.ResolvePrice(&product, variantType, planType == models.PlanOneTime, cycleDays, unitCount)
		if err != nil {
			return nil, err
		}

		item := models.OrderItem{
			ProductID:      product.ID,
			VariantID:      line.VariantID,
			Name:           resolved.Name,
			Quantity:       line.Quantity,
			Amount:         resolved.ListAmount,
			TaxRate:        resolved.TaxRate,
			TotalAmount:    resolved.TotalAmount,
			DurationDays:   resolved.DurationDays,
			UnitCount:      resolved.UnitCount,
			SavingsPercent: resolved.SavingsPercent,
			Features:       resolved.Features,
		}
		if resolved.Amount != resolved.ListAmount {
			discounted := resolved.Amount
			item.DiscountedAmount = &discounted
		}
		items = append(items, item)
	}
	return items, nil
}

// cartScope collects the product and category ids of the cart so coupon
// eligibility sees the same selection it saw at checkout.
func cartScope(db *gorm.DB, cart *models.Cart) ([]uint, []uint, error) {
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

func sellsVariant(product *models.Product, variantType models.VariantType) bool {
	if product.VariantKind == variantType {
		return true
	}
	return variantType == models.VariantStandUpPouch && product.HasStandupPouch
}

func checkAggregates(req CreateOrderRequest) error {
	amounts := []float64{
		req.Subtotal, req.CouponDiscountAmount, req.MembershipDiscountAmount,
		req.SubscriptionPlanDiscountAmount, req.TaxAmount, req.ShippingAmount, req.GrandTotal,
	}
	for _, v := range amounts {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return apperr.Validation("Order totals must be non-negative numbers")
		}
	}
	return nil
}

// findUserOrder loads one of the caller's orders by numeric id or by order
// number. Only numeric keys are bound against the id column; postgres
// rejects a text bind on bigint.
func findUserOrder(db *gorm.DB, userID, key string) (*models.Order, error) {
	q := db.Where("user_id = ?", userID)
	if _, err := strconv.ParseUint(key, 10, 64); err == nil {
		q = q.Where("id = ?", key)
	} else {
		q = q.Where("order_number = ?", key)
	}
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return &order, nil
}

// recordReferral credits the referrer when the order's coupon code matches
// another user's referral code. Best-effort.
func recordReferral(db *gorm.DB, userID string, order *models.Order) {
	if order.CouponCode == "" {
		return
	}
	var referrer models.User
	err := db.Where("referral_code = ? AND id <> ?", order.CouponCode, userID).First(&referrer).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Referral lookup failed for order %s: %v", order.OrderNumber, err)
		}
		return
	}
	referral := models.Referral{
		ReferrerID:  referrer.ID,
		RefereeID:   userID,
		Code:        order.CouponCode,
		OrderID:     order.ID,
		OrderAmount: order.GrandTotal,
	}
	if err := db.Create(&referral).Error; err != nil {
		log.Printf("⚠️ Failed to record referral for order %s: %v", order.OrderNumber, err)
	}
}

// -------- Handlers --------

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

// POST /orders
func CreateOrderHandler(db *gorm.DB, deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		order, err := CreateOrder(db, deps, userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/mine
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — accepts the numeric id or the order number
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		order, err := findUserOrder(db.Preload("Items"), userID, c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /orders/:orderID — cancels an unpaid order, soft-deleting it and
// its pending payments
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		order, err := findUserOrder(db, userID, c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "Paid orders cannot be cancelled"})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(order).Update("status", models.OrderStatusCancelled).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusPending).
				Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			return tx.Delete(order).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		updates := map[string]any{"status": newStatus}
		now := time.Now()
		switch newStatus {
		case models.OrderStatusShipped:
			updates["shipped_at"] = &now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = &now
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
				Update("payment_status", newStatus).Error; err != nil {
				return err
			}
			return tx.Model(&models.Payment{}).Where("order_id = ?", orderID).
				Update("status", newStatus).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
