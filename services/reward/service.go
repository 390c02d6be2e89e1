package reward

import (
	"context"

	"reward-platform/pkg/db/option"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/validate"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	errRewardNotFound = errutil.NotFound("Reward not found", nil)
	errEventNotFound  = errutil.NotFound("Event not found", nil)
	errInvalidType    = errutil.BadRequest("type must be one of [POINT ITEM COUPON]", nil)
)

type Service struct {
	node    *snowflake.Node
	rewards Store
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		node:    p.Node,
		rewards: NewStore(p.DB),
	}
}

// Register adds quantity to the catalog line keyed by (event, type, item)
// or creates it. Concurrent registrations of the same line never lose an
// increment.
func (s *Service) Register(ctx context.Context, eventID string, req CreateRewardRequest) (*Reward, error) {
	zapLog := logger.FromContext(ctx).With(zap.String("event_id", eventID))

	if !gen.ValidID(eventID) {
		return nil, errEventNotFound
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	t, ok := ParseType(req.Type)
	if !ok {
		return nil, errInvalidType
	}
	meta, err := req.Metadata.Map()
	if err != nil {
		return nil, err
	}

	out, err := s.rewards.Accumulate(ctx, &Reward{
		ID:       s.node.Generate().String(),
		EventID:  eventID,
		Type:     t,
		ItemKey:  lineKey(t, meta),
		Quantity: req.Quantity,
		Metadata: datatypes.JSONMap(meta),
	})
	if err != nil {
		zapLog.Error("failed to register reward", zap.Error(err))
		return nil, errutil.Internal("failed to register reward", err)
	}
	if out == nil {
		return nil, errutil.Internal("reward vanished after register", nil)
	}

	zapLog.Info("reward registered",
		zap.String("reward_id", out.ID),
		zap.String("type", string(out.Type)),
		zap.Int64("added", req.Quantity),
		zap.Int64("quantity", out.Quantity),
	)
	return out, nil
}

// FindByEvent lists an event's catalog in insertion order.
func (s *Service) FindByEvent(ctx context.Context, eventID string) ([]*Reward, error) {
	if !gen.ValidID(eventID) {
		return nil, errEventNotFound
	}

	rewards, err := s.rewards.Find(ctx, &Reward{EventID: eventID},
		option.WithSortBy(
			option.QuerySortBy{SortBy: "created_at", OrderBy: "ASC"},
			option.QuerySortBy{SortBy: "id", OrderBy: "ASC"},
		),
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list rewards", zap.String("event_id", eventID), zap.Error(err))
		return nil, errutil.Internal("failed to list rewards", err)
	}
	return rewards, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*Reward, error) {
	if !gen.ValidID(id) {
		return nil, errRewardNotFound
	}

	r, err := s.rewards.FindOne(ctx, &Reward{ID: id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to get reward", zap.String("reward_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to get reward", err)
	}
	if r == nil {
		return nil, errRewardNotFound
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRewardRequest) (*Reward, error) {
	r, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Type != nil {
		t, ok := ParseType(*req.Type)
		if !ok {
			return nil, errInvalidType
		}
		r.Type = t
		updates["type"] = t
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, errutil.BadRequest("quantity must be at least 1", nil)
		}
		updates["quantity"] = *req.Quantity
	}
	if req.Metadata.Present() {
		meta, err := req.Metadata.Map()
		if err != nil {
			return nil, err
		}
		r.Metadata = datatypes.JSONMap(meta)
		updates["metadata"] = r.Metadata
	}
	if len(updates) == 0 {
		return r, nil
	}
	updates["item_key"] = lineKey(r.Type, r.Metadata)

	if err := s.rewards.Update(ctx, r.ID, updates); err != nil {
		if _, ok := errutil.DuplicateKey(err); ok {
			return nil, errutil.Conflict("a reward with the same type and item already exists for this event", err)
		}
		logger.FromContext(ctx).Error("failed to update reward", zap.String("reward_id", r.ID), zap.Error(err))
		return nil, errutil.Internal("failed to update reward", err)
	}

	return s.FindOne(ctx, r.ID)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if !gen.ValidID(id) {
		return errRewardNotFound
	}

	n, err := s.rewards.Delete(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete reward", zap.String("reward_id", id), zap.Error(err))
		return errutil.Internal("failed to delete reward", err)
	}
	if n == 0 {
		return errRewardNotFound
	}
	return nil
}
