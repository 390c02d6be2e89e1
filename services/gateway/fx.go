package gateway

import (
	"reward-platform/pkg/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway",
	fx.Provide(
		NewForwarder,
		fx.Annotate(
			UpstreamCheckers,
			fx.ResultTags(`group:"health.checkers,flatten"`),
		),
	),
	fx.Invoke(registerRoutes),
)

func registerRoutes(api *gin.RouterGroup, table *rbac.Table, f *Forwarder) {
	Register(api, table, f)
}
