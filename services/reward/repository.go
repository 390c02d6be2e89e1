package reward

import (
	"context"
	"time"

	"reward-platform/pkg/db/option"
	"reward-platform/pkg/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store extends the generic repository with the atomic accumulate primitive
// the catalog relies on.
type Store interface {
	repository.Repository[Reward]
	Accumulate(ctx context.Context, r *Reward) (*Reward, error)
	FindByKey(ctx context.Context, eventID string, t Type, itemKey string) (*Reward, error)
}

type store struct {
	repository.Repository[Reward]
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{
		Repository: repository.ProvideStore[Reward](db),
		db:         db,
	}
}

// Accumulate inserts r, or adds r.Quantity to the row already holding the
// same (event_id, type, item_key) in a single statement. Metadata of an
// existing row is kept as first written.
func (s *store) Accumulate(ctx context.Context, r *Reward) (*Reward, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "type"}, {Name: "item_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("rewards.quantity + ?", r.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(r).Error
	if err != nil {
		return nil, err
	}

	return s.FindByKey(ctx, r.EventID, r.Type, r.ItemKey)
}

func (s *store) FindByKey(ctx context.Context, eventID string, t Type, itemKey string) (*Reward, error) {
	return s.FindOne(ctx, &Reward{EventID: eventID, Type: t},
		option.ApplyOperator(option.Condition{Field: "item_key", Operator: option.EQ, Value: itemKey}),
	)
}
