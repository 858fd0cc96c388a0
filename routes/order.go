package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/order"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/middleware"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/notify"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, deps orderControllers.Deps, hub *notify.Hub) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Create a new order from the cart
		orders.POST("/", orderControllers.CreateOrderHandler(db, deps))

		// Fetch the caller's orders
		orders.GET("/mine", orderControllers.GetUserOrdersHandler(db))

		// Fetch a single order by id or order number
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Cancel an unpaid order
		orders.DELETE("/:orderID", orderControllers.CancelOrderHandler(db))
	}

	// websocket endpoint for real-time order events
	r.GET("/orders/ws", orderControllers.OrderEventsHandler(hub))
}
