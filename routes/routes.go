package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/vishwaVaghasiya16/viteezy-v2-sub002/controllers/order"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/membership"
	"github.com/vishwaVaghasiya16/viteezy-v2-sub002/notify"
)

// SetupRoutes is the single entry-point that wires up user, order, and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	hub := notify.NewHub()
	deps := orderControllers.Deps{
		Members:  membership.NewStoreResolver(db),
		Notifier: notify.NewLogDispatcher(hub),
	}

	SetupUserRoutes(r, db, deps)
	SetupOrderRoutes(r, db, deps, hub)
	SetupAdminRoutes(r, db)
}
