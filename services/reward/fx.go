package reward

import (
	"reward-platform/pkg/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("reward.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var ServerModule = fx.Module("reward.server",
	Module,
	fx.Invoke(
		db.Migrate(&Reward{}),
		registerRoutes,
	),
)

func registerRoutes(api *gin.RouterGroup, h *Handler) {
	h.Register(api)
}
