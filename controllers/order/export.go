package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/models"
)

// GET /admin/orders/export
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderNumber", "UserID", "PlanType", "VariantType", "Currency",
			"Subtotal", "CouponDiscount", "MembershipDiscount", "PlanDiscount",
			"Tax", "Shipping", "GrandTotal", "CouponCode",
			"Status", "PaymentStatus", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.PlanType))
			row.AddCell().SetValue(string(o.VariantType))
			row.AddCell().SetValue(o.Currency)
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.CouponDiscountAmount)
			row.AddCell().SetValue(o.MembershipDiscountAmount)
			row.AddCell().SetValue(o.SubscriptionPlanDiscountAmount)
			row.AddCell().SetValue(o.TaxAmount)
			row.AddCell().SetValue(o.ShippingAmount)
			row.AddCell().SetValue(o.GrandTotal)
			row.AddCell().SetValue(o.CouponCode)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
