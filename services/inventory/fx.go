package inventory

import (
	"reward-platform/pkg/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var ServerModule = fx.Module("inventory.server",
	Module,
	fx.Invoke(
		db.Migrate(&Grant{}),
		registerRoutes,
	),
)

func registerRoutes(api *gin.RouterGroup, h *Handler) {
	h.Register(api)
}
