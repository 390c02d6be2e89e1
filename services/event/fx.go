package event

import (
	"reward-platform/pkg/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("event.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var ServerModule = fx.Module("event.server",
	Module,
	fx.Invoke(
		db.Migrate(&Event{}),
		registerRoutes,
	),
)

func registerRoutes(api *gin.RouterGroup, h *Handler) {
	h.Register(api)
}
