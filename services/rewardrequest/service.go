package rewardrequest

import (
	"context"
	"strings"
	"time"

	"reward-platform/pkg/db/option"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/repository"
	"reward-platform/pkg/validate"
	"reward-platform/services/inventory"
	"reward-platform/services/reward"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const msgAlreadyRequested = "Reward already requested for this event"

var (
	errRequestNotFound  = errutil.NotFound("Reward request not found", nil)
	errInvalidEventID   = errutil.BadRequest("Invalid event ID", nil)
	errAlreadyRequested = errutil.Conflict(msgAlreadyRequested, nil)
	errInvalidStatus    = errutil.BadRequest("status must be one of [PENDING SUCCESS FAIL]", nil)
)

// Catalog lists the rewards attached to an event.
type Catalog interface {
	FindByEvent(ctx context.Context, eventID string) ([]*reward.Reward, error)
}

// Granter appends entries to a user's inventory.
type Granter interface {
	Grant(ctx context.Context, actorID string, req inventory.GrantRequest) (*inventory.Grant, error)
}

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	requests repository.Repository[RewardRequest]
	catalog  Catalog
	granter  Granter
	claimer  Claimer
	now      func() time.Time
}

type ServiceParams struct {
	fx.In
	DB        *gorm.DB
	Node      *snowflake.Node
	Rewards   *reward.Service
	Inventory *inventory.Service
	Redis     *redis.Client `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	s := &Service{
		db:       p.DB,
		node:     p.Node,
		requests: repository.ProvideStore[RewardRequest](p.DB),
		catalog:  p.Rewards,
		granter:  p.Inventory,
		now:      time.Now,
	}
	if p.Redis != nil {
		s.claimer = NewRedisClaimer(p.Redis, p.Node)
	}
	return s
}

// Create files a PENDING request for (userID, eventID). A second request
// for the same pair conflicts no matter what status the first one reached.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*RewardRequest, error) {
	eventID := strings.TrimSpace(req.EventID)
	zapLog := logger.FromContext(ctx).With(
		zap.String("user_id", userID),
		zap.String("event_id", eventID),
	)

	if !gen.ValidID(eventID) {
		return nil, errInvalidEventID
	}

	if s.claimer != nil {
		release, ok, err := s.claimer.Claim(ctx, userID, eventID)
		if err != nil {
			zapLog.Error("failed to claim reward request", zap.Error(err))
			return nil, errutil.Internal("failed to create reward request", err)
		}
		if !ok {
			return nil, errAlreadyRequested
		}
		defer release()
	}

	existing, err := s.requests.FindOne(ctx, &RewardRequest{UserID: userID, EventID: eventID})
	if err != nil {
		zapLog.Error("failed to look up reward request", zap.Error(err))
		return nil, errutil.Internal("failed to create reward request", err)
	}
	if existing != nil {
		return nil, errAlreadyRequested
	}

	details := req.Details
	if details == nil {
		details = map[string]any{}
	}

	rr := &RewardRequest{
		ID:          s.node.Generate().String(),
		UserID:      userID,
		EventID:     eventID,
		Status:      Pending,
		Details:     datatypes.JSONMap(details),
		RequestDate: s.now(),
	}
	if err := s.requests.Create(ctx, rr); err != nil {
		if _, ok := errutil.DuplicateKey(err); ok {
			return nil, errutil.Conflict(msgAlreadyRequested, err)
		}
		zapLog.Error("failed to create reward request", zap.Error(err))
		return nil, errutil.Internal("failed to create reward request", err)
	}

	zapLog.Info("reward request created", zap.String("request_id", rr.ID))
	return rr, nil
}

func (s *Service) FindByUser(ctx context.Context, userID string) ([]*RewardRequest, error) {
	return s.list(ctx, &RewardRequest{UserID: userID})
}

func (s *Service) FindAll(ctx context.Context) ([]*RewardRequest, error) {
	return s.list(ctx, nil)
}

func (s *Service) list(ctx context.Context, query *RewardRequest) ([]*RewardRequest, error) {
	out, err := s.requests.Find(ctx, query,
		option.WithSortBy(
			option.QuerySortBy{SortBy: "request_date", OrderBy: "ASC"},
			option.QuerySortBy{SortBy: "id", OrderBy: "ASC"},
		),
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list reward requests", zap.Error(err))
		return nil, errutil.Internal("failed to list reward requests", err)
	}
	return out, nil
}

// UpdateStatus moves a request to status on behalf of actorID. Entering
// SUCCESS from any other status grants every catalog line of the event to
// the requester, in catalog order. Grants are not rolled back when a later
// one fails.
func (s *Service) UpdateStatus(ctx context.Context, actorID, id string, req UpdateStatusRequest) (*RewardRequest, error) {
	zapLog := logger.FromContext(ctx).With(zap.String("request_id", id), zap.String("actor", actorID))

	if !gen.ValidID(id) {
		return nil, errRequestNotFound
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	status, ok := ParseStatus(req.Status)
	if !ok {
		return nil, errInvalidStatus
	}

	var (
		current *RewardRequest
		prev    Status
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.requests.WithTrx(tx)

		rr, err := repo.FindOne(ctx, &RewardRequest{ID: id}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if rr == nil {
			return errRequestNotFound
		}

		prev = rr.Status
		if err := repo.Update(ctx, id, map[string]any{"status": status}); err != nil {
			return err
		}
		rr.Status = status
		current = rr
		return nil
	})
	if err != nil {
		if errutil.Is(err, errutil.StatusNotFound) {
			return nil, err
		}
		zapLog.Error("failed to update reward request status", zap.Error(err))
		return nil, errutil.Internal("failed to update reward request status", err)
	}

	zapLog.Info("reward request status updated",
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
	)

	if status == Success && prev != Success {
		if err := s.fulfill(ctx, actorID, current); err != nil {
			return nil, err
		}
	}

	out, err := s.requests.FindOne(ctx, &RewardRequest{ID: id})
	if err != nil {
		zapLog.Error("failed to reload reward request", zap.Error(err))
		return nil, errutil.Internal("failed to update reward request status", err)
	}
	if out == nil {
		return nil, errRequestNotFound
	}
	return out, nil
}

func (s *Service) fulfill(ctx context.Context, actorID string, rr *RewardRequest) error {
	zapLog := logger.FromContext(ctx).With(
		zap.String("request_id", rr.ID),
		zap.String("user_id", rr.UserID),
		zap.String("event_id", rr.EventID),
	)

	rewards, err := s.catalog.FindByEvent(ctx, rr.EventID)
	if err != nil {
		zapLog.Error("failed to load event rewards", zap.Error(err))
		return errutil.Internal("failed to fulfill reward request", err)
	}

	for i, rw := range rewards {
		_, err := s.granter.Grant(ctx, actorID, inventory.GrantRequest{
			UserID:   rr.UserID,
			ItemID:   rw.GrantKey(),
			Quantity: rw.Quantity,
			Metadata: rw.Metadata,
		})
		if err != nil {
			zapLog.Error("reward fulfillment incomplete",
				zap.Int("granted", i),
				zap.Int("total", len(rewards)),
				zap.String("reward_id", rw.ID),
				zap.Error(err),
			)
			return errutil.Internal("failed to fulfill reward request", err)
		}
	}

	zapLog.Info("reward request fulfilled", zap.Int("granted", len(rewards)))
	return nil
}
