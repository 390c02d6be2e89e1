package rewardrequest

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Status string

var (
	Pending Status = "PENDING"
	Success Status = "SUCCESS"
	Fail    Status = "FAIL"
)

func (s Status) String() string {
	switch s {
	case Pending, Success, Fail:
		return string(s)
	default:
		return ""
	}
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.String() != ""
}

// RewardRequest records a user's claim on an event's rewards. A user gets
// at most one request per event, whatever its status.
type RewardRequest struct {
	ID          string            `gorm:"column:id;primaryKey" json:"id"`
	UserID      string            `gorm:"column:user_id;size:32;uniqueIndex:idx_reward_requests_user_event" json:"userId"`
	EventID     string            `gorm:"column:event_id;size:32;uniqueIndex:idx_reward_requests_user_event" json:"eventId"`
	Status      Status            `gorm:"column:status;size:16;index" json:"status"`
	Details     datatypes.JSONMap `gorm:"column:details" json:"details"`
	RequestDate time.Time         `gorm:"column:request_date" json:"requestDate"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

type CreateRequest struct {
	EventID string         `json:"eventId"`
	Details map[string]any `json:"details"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
