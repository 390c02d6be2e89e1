package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var Module = fx.Module("health", fx.Provide(ProvideHealth))

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	probeTimeout = 3 * time.Second
)

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps"`
}

// Checker is an extra readiness probe contributed through the
// "health.checkers" fx group.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type HealthService interface {
	Liveness(c *gin.Context)
	Readiness(c *gin.Context)
}

type health struct {
	checkers []Checker
}

type HealthParams struct {
	fx.In
	DB       *gorm.DB      `optional:"true"`
	Redis    *redis.Client `optional:"true"`
	Checkers []Checker     `group:"health.checkers"`
}

func ProvideHealth(p HealthParams) HealthService {
	h := &health{}
	if p.DB != nil {
		h.checkers = append(h.checkers, dbChecker{db: p.DB})
	}
	if p.Redis != nil {
		h.checkers = append(h.checkers, redisChecker{rdb: p.Redis})
	}
	h.checkers = append(h.checkers, p.Checkers...)
	return h
}

func New(checkers ...Checker) HealthService {
	return &health{checkers: checkers}
}

func (h *health) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{
		Status:  statusHealthy,
		Message: "OK",
	})
}

// Readiness runs every probe concurrently and answers 503 when any fails.
func (h *health) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	deps := make([]Dependency, len(h.checkers))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, chk := range h.checkers {
		i, chk := i, chk
		g.Go(func() error {
			dep := Dependency{Name: chk.Name(), Status: statusHealthy, Message: "OK"}
			if err := chk.Check(gctx); err != nil {
				dep.Status = statusUnhealthy
				dep.Message = err.Error()
			}
			mu.Lock()
			deps[i] = dep
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	out := &Health{Status: statusHealthy, Message: "OK", Deps: deps}
	code := http.StatusOK
	for _, d := range deps {
		if d.Status != statusHealthy {
			out.Status = statusUnhealthy
			out.Message = "one or more dependencies are unavailable"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, out)
}

type dbChecker struct {
	db *gorm.DB
}

func (d dbChecker) Name() string { return d.db.Name() }

func (d dbChecker) Check(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type redisChecker struct {
	rdb *redis.Client
}

func (redisChecker) Name() string { return "redis" }

func (r redisChecker) Check(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
