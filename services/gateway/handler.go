package gateway

import (
	"reward-platform/pkg/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register mounts every route of table on r. Admission has already run by
// the time a handler is reached.
func Register(r gin.IRouter, table *rbac.Table, f *Forwarder) {
	for _, route := range table.Routes() {
		r.Handle(route.Method, route.Path, f.Handle(route))
		zap.L().Debug("gateway route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("target", route.Target),
		)
	}
}
