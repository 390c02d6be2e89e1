package reward

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Type string

var (
	Point  Type = "POINT"
	Item   Type = "ITEM"
	Coupon Type = "COUPON"
)

func (t Type) String() string {
	switch t {
	case Point, Item, Coupon:
		return string(t)
	default:
		return ""
	}
}

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.String() != ""
}

const (
	metadataItemID  = "itemId"
	metadataItemKey = "itemKey"
)

// Reward is one catalog line of an event. (event_id, type, item_key) is
// unique so repeated registrations accumulate into the same row.
type Reward struct {
	ID        string            `gorm:"column:id;primaryKey" json:"id"`
	EventID   string            `gorm:"column:event_id;size:32;uniqueIndex:idx_rewards_event_type_item" json:"eventId"`
	Type      Type              `gorm:"column:type;size:16;uniqueIndex:idx_rewards_event_type_item" json:"type"`
	ItemKey   string            `gorm:"column:item_key;size:255;not null;default:'';uniqueIndex:idx_rewards_event_type_item" json:"-"`
	Quantity  int64             `gorm:"column:quantity" json:"quantity"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

// GrantKey is the inventory item a fulfilled request receives for this line:
// the catalog item id when present, the reward type otherwise.
func (r *Reward) GrantKey() string {
	if key := itemKeyOf(r.Metadata); key != "" {
		return key
	}
	return string(r.Type)
}

type CreateRewardRequest struct {
	Type     string   `json:"type" validate:"required"`
	Quantity int64    `json:"quantity" validate:"gte=1"`
	Metadata Metadata `json:"metadata"`
}

type UpdateRewardRequest struct {
	Type     *string  `json:"type"`
	Quantity *int64   `json:"quantity"`
	Metadata Metadata `json:"metadata"`
}
