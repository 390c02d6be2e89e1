package rewardrequest

import (
	"reward-platform/pkg/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("rewardrequest.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
)

var ServerModule = fx.Module("rewardrequest.server",
	Module,
	fx.Invoke(
		db.Migrate(&RewardRequest{}),
		registerRoutes,
	),
)

func registerRoutes(api *gin.RouterGroup, h *Handler) {
	h.Register(api)
}
