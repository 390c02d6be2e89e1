package event

import (
	"context"

	"reward-platform/pkg/celengine"
	"reward-platform/pkg/db/option"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/repository"
	"reward-platform/pkg/validate"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errEventNotFound = errutil.NotFound("Event not found", nil)

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	events repository.Repository[Event]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		events: repository.ProvideStore[Event](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, actorID string, req CreateEventRequest) (*Event, error) {
	zapLog := logger.FromContext(ctx)

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := celengine.ValidateCondition(req.Condition); err != nil {
		return nil, err
	}

	status := Inactive
	if req.Status != "" {
		st, ok := ParseStatus(req.Status)
		if !ok {
			return nil, errutil.BadRequest("status must be one of [ACTIVE INACTIVE]", nil)
		}
		status = st
	}

	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	evt := &Event{
		ID:        s.node.Generate().String(),
		Name:      req.Name,
		Condition: datatypes.JSONMap(req.Condition),
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}
	if err := s.events.Create(ctx, evt); err != nil {
		zapLog.Error("failed to create event", zap.String("name", req.Name), zap.Error(err))
		return nil, s.conflictOr(err, "failed to create event")
	}

	zapLog.Info("event created", zap.String("event_id", evt.ID), zap.String("actor", actorID))
	return evt, nil
}

// conflictOr maps a unique violation on the name index to the catalog's
// conflict message.
func (s *Service) conflictOr(err error, msg string) error {
	if _, ok := errutil.DuplicateKey(err); ok {
		return errutil.Conflict("an event with the same name already exists", err)
	}
	return errutil.Internal(msg, err)
}

func (s *Service) ensureNameFree(ctx context.Context, name, exceptID string) error {
	opts := []option.QueryOption{}
	if exceptID != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "id", Operator: option.NEQ, Value: exceptID}))
	}

	exists, err := s.events.FindOne(ctx, &Event{Name: name}, opts...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to check event name", zap.Error(err))
		return errutil.Internal("failed to check event name", err)
	}
	if exists != nil {
		return errutil.Conflict("an event with the same name already exists", nil)
	}
	return nil
}

func (s *Service) FindAll(ctx context.Context) ([]*Event, error) {
	events, err := s.events.Find(ctx, nil, option.WithSortBy(option.QuerySortBy{OrderBy: "ASC"}))
	if err != nil {
		logger.FromContext(ctx).Error("failed to list events", zap.Error(err))
		return nil, errutil.Internal("failed to list events", err)
	}
	return events, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*Event, error) {
	if !gen.ValidID(id) {
		return nil, errEventNotFound
	}

	evt, err := s.events.FindOne(ctx, &Event{ID: id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to get event", err)
	}
	if evt == nil {
		return nil, errEventNotFound
	}
	return evt, nil
}

func (s *Service) Update(ctx context.Context, id, actorID string, req UpdateEventRequest) (*Event, error) {
	evt, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_by": actorID}
	if req.Name != nil && *req.Name != evt.Name {
		if *req.Name == "" {
			return nil, errutil.BadRequest("name must not be empty", nil)
		}
		if err := s.ensureNameFree(ctx, *req.Name, evt.ID); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Condition != nil {
		if err := celengine.ValidateCondition(req.Condition); err != nil {
			return nil, err
		}
		updates["condition_expr"] = datatypes.JSONMap(req.Condition)
	}
	if req.StartDate != nil {
		t, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = t
	}
	if req.EndDate != nil {
		t, err := parseDate("endDate", *req.EndDate)
		if err != nil {
			return nil, err
		}
		updates["end_date"] = t
	}
	if req.Status != nil {
		st, ok := ParseStatus(*req.Status)
		if !ok {
			return nil, errutil.BadRequest("status must be one of [ACTIVE INACTIVE]", nil)
		}
		updates["status"] = st
	}

	if err := s.events.Update(ctx, evt.ID, updates); err != nil {
		logger.FromContext(ctx).Error("failed to update event", zap.String("event_id", evt.ID), zap.Error(err))
		return nil, s.conflictOr(err, "failed to update event")
	}

	return s.FindOne(ctx, evt.ID)
}

// Remove deletes the event only. Rewards and requests that reference it
// are left in place.
func (s *Service) Remove(ctx context.Context, id string) error {
	if !gen.ValidID(id) {
		return errEventNotFound
	}

	n, err := s.events.Delete(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete event", zap.String("event_id", id), zap.Error(err))
		return errutil.Internal("failed to delete event", err)
	}
	if n == 0 {
		return errEventNotFound
	}

	logger.FromContext(ctx).Info("event deleted", zap.String("event_id", id))
	return nil
}
