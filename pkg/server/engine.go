package server

import (
	"reward-platform/pkg/config"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/health"
	"reward-platform/pkg/middleware"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type EngineParams struct {
	fx.In
	Config *config.Config
	Health health.HealthService
}

// NewEngine builds the gin engine with the shared middleware chain and the
// unauthenticated health routes.
func NewEngine(p EngineParams) *gin.Engine {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Logger(),
		middleware.Error(),
		middleware.Recovery(),
	)
	r.NoRoute(func(c *gin.Context) {
		c.Error(errRouteNotFound)
	})

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)

	return r
}

type APIGroupParams struct {
	fx.In
	Engine    *gin.Engine
	Table     *rbac.Table
	Verifier  *token.Manager
	Validator middleware.SubjectValidator `optional:"true"`
}

// NewAPIGroup returns the router group every business route is mounted on.
// Requests pass through the gatekeeper before reaching a handler.
func NewAPIGroup(p APIGroupParams) *gin.RouterGroup {
	var opts []middleware.GateOption
	if p.Validator != nil {
		opts = append(opts, middleware.WithSubjectValidator(p.Validator))
	}
	return p.Engine.Group("/", middleware.Gatekeeper(p.Table, p.Verifier, opts...))
}

var errRouteNotFound = errutil.NotFound("Cannot find the requested route", nil)
