package inventory

import (
	"time"

	"gorm.io/datatypes"
)

// Grant is one append-only inventory entry. Grants are never merged, so a
// user's holding of an item is the sum of its rows.
type Grant struct {
	ID        string            `gorm:"column:id;primaryKey" json:"id"`
	UserID    string            `gorm:"column:user_id;size:32;index" json:"userId"`
	ItemID    string            `gorm:"column:item_id;size:255" json:"itemId"`
	Quantity  int64             `gorm:"column:quantity" json:"quantity"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	GrantedAt time.Time         `gorm:"column:granted_at" json:"grantedAt"`
	CreatedBy string            `gorm:"column:created_by" json:"createdBy"`
	UpdatedBy string            `gorm:"column:updated_by" json:"updatedBy"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (Grant) TableName() string {
	return "inventory_grants"
}

type GrantRequest struct {
	UserID   string         `json:"userId" validate:"required"`
	ItemID   string         `json:"itemId" validate:"required"`
	Quantity int64          `json:"quantity" validate:"gte=1"`
	Metadata map[string]any `json:"metadata"`
}
