package event

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Status string

var (
	Active   Status = "ACTIVE"
	Inactive Status = "INACTIVE"
)

func (s Status) String() string {
	switch s {
	case Active, Inactive:
		return string(s)
	default:
		return ""
	}
}

// ParseStatus accepts either case.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.String() != ""
}

type Event struct {
	ID        string            `gorm:"column:id;primaryKey" json:"id"`
	Name      string            `gorm:"column:name;uniqueIndex;size:255" json:"name"`
	Condition datatypes.JSONMap `gorm:"column:condition_expr" json:"condition"`
	StartDate time.Time         `gorm:"column:start_date" json:"startDate"`
	EndDate   time.Time         `gorm:"column:end_date" json:"endDate"`
	Status    Status            `gorm:"column:status;size:16" json:"status"`
	CreatedBy string            `gorm:"column:created_by" json:"createdBy"`
	UpdatedBy string            `gorm:"column:updated_by" json:"updatedBy"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

type CreateEventRequest struct {
	Name      string         `json:"name" validate:"required"`
	Condition map[string]any `json:"condition" validate:"required"`
	StartDate string         `json:"startDate" validate:"required"`
	EndDate   string         `json:"endDate" validate:"required"`
	Status    string         `json:"status"`
}

// UpdateEventRequest is a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Name      *string        `json:"name"`
	Condition map[string]any `json:"condition"`
	StartDate *string        `json:"startDate"`
	EndDate   *string        `json:"endDate"`
	Status    *string        `json:"status"`
}
