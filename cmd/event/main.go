package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"reward-platform/pkg/config"
	"reward-platform/pkg/db"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/hashistack/secretmanager"
	"reward-platform/pkg/health"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/otelcol"
	"reward-platform/pkg/profiling"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/redis"
	"reward-platform/pkg/server"
	"reward-platform/pkg/token"
	"reward-platform/services/event"
	"reward-platform/services/inventory"
	"reward-platform/services/reward"
	"reward-platform/services/rewardrequest"
)

func main() {
	opts := []fx.Option{
		config.Module,
		secretmanager.Module,
		logger.Module,
		otelcol.Module,
		profiling.Module,
		db.Module,
		redis.Module,
		gen.Module,
		token.Module,
		rbac.Module,
		health.Module,
		server.Module,
		event.ServerModule,
		reward.ServerModule,
		inventory.ServerModule,
		rewardrequest.ServerModule,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func() fxevent.Logger {
	return fxevent.NopLogger
})
