package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/cart"
	checkoutControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/checkout"
	orderControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/order"
	productControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/product"
	userControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/user"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, deps orderControllers.Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		// ──────────────── Address Book ────────────────
		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("/", userControllers.GetAddresses(db))
			addressGroup.POST("/", userControllers.CreateAddress(db))
			addressGroup.PUT("/:id", userControllers.UpdateAddress(db))
			addressGroup.DELETE("/:id", userControllers.DeleteAddress(db))
		}

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.AddCartItem(db))
			cartGroup.PUT("/", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/item", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		// ──────────────── Checkout ────────────────
		userGroup.POST("/checkout/validate", checkoutControllers.ValidateCheckoutHandler(db, deps.Members))

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productControllers.GetProducts(db))
		userGroup.GET("/products/:id", productControllers.GetProductByID(db))
	}
}
