package user

import (
	"time"

	"reward-platform/pkg/rbac"

	"gorm.io/datatypes"
)

type User struct {
	ID        string                         `gorm:"column:id;primaryKey" json:"id"`
	Email     string                         `gorm:"column:email;uniqueIndex;size:320" json:"email"`
	Password  string                         `gorm:"column:password" json:"-"`
	Roles     datatypes.JSONSlice[rbac.Role] `gorm:"column:roles" json:"roles"`
	CreatedAt time.Time                      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time                      `gorm:"column:updated_at" json:"updatedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangeRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type Profile struct {
	UserID string      `json:"userId"`
	Roles  []rbac.Role `json:"roles"`
}
