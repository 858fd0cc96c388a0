package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/order"
	userControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/user"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. API-key protected.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.GET("/users", userControllers.GetAllUsers(db))

		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		admin.PUT("/orders/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
	}
}
