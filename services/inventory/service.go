package inventory

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

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errUserNotFound = errutil.NotFound("User not found", nil)

type Service struct {
	node   *snowflake.Node
	grants repository.Repository[Grant]
	now    func() time.Time
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		node:   p.Node,
		grants: repository.ProvideStore[Grant](p.DB),
		now:    time.Now,
	}
}

// Grant appends one entry to the user's inventory on behalf of actorID.
func (s *Service) Grant(ctx context.Context, actorID string, req GrantRequest) (*Grant, error) {
	req.ItemID = strings.TrimSpace(req.ItemID)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !gen.ValidID(req.UserID) {
		return nil, errUserNotFound
	}

	meta := req.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	g := &Grant{
		ID:        s.node.Generate().String(),
		UserID:    req.UserID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		Metadata:  datatypes.JSONMap(meta),
		GrantedAt: s.now(),
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}
	if err := s.grants.Create(ctx, g); err != nil {
		logger.FromContext(ctx).Error("failed to grant item",
			zap.String("user_id", req.UserID),
			zap.String("item_id", req.ItemID),
			zap.Error(err),
		)
		return nil, errutil.Internal("failed to grant item", err)
	}

	logger.FromContext(ctx).Info("item granted",
		zap.String("grant_id", g.ID),
		zap.String("user_id", g.UserID),
		zap.String("item_id", g.ItemID),
		zap.Int64("quantity", g.Quantity),
		zap.String("actor", actorID),
	)
	return g, nil
}

// ListByUser returns the user's grants oldest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Grant, error) {
	if !gen.ValidID(userID) {
		return nil, errUserNotFound
	}

	grants, err := s.grants.Find(ctx, &Grant{UserID: userID},
		option.WithSortBy(
			option.QuerySortBy{SortBy: "granted_at", OrderBy: "ASC"},
			option.QuerySortBy{SortBy: "id", OrderBy: "ASC"},
		),
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list inventory", zap.String("user_id", userID), zap.Error(err))
		return nil, errutil.Internal("failed to list inventory", err)
	}
	return grants, nil
}
