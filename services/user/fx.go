package user

import (
	"reward-platform/pkg/db"
	"reward-platform/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("user.module",
	fx.Provide(
		NewService,
		NewHandler,
		subjectValidator,
	),
)

var ServerModule = fx.Module("user.server",
	Module,
	fx.Invoke(
		db.Migrate(&User{}),
		registerRoutes,
	),
)

func subjectValidator(svc *Service) middleware.SubjectValidator {
	return svc.Exists
}

func registerRoutes(api *gin.RouterGroup, h *Handler) {
	h.Register(api)
}
