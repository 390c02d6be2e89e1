package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"reward-platform/pkg/config"
	"reward-platform/pkg/db"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/hashistack/secretmanager"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/token"
	"reward-platform/services/user"
)

func main() {
	opts := []fx.Option{
		config.Module,
		secretmanager.Module,
		logger.Module,
		db.Module,
		gen.Module,
		token.Module,
		user.Module,
		fx.Invoke(
			db.Migrate(&user.User{}),
			seed,
		),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func seed(cfg *config.Config, svc *user.Service) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	_, err := svc.EnsureAdmin(context.Background(), cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	return err
}
