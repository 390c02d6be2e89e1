package user

import (
	"context"
	"slices"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/validate"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// EnsureAdmin makes sure an account with email holds ADMIN. A missing
// account is created with password; an existing one keeps its password
// and gains the role.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*User, error) {
	zapLog := logger.FromContext(ctx)

	req := RegisterRequest{Email: normalizeEmail(email), Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.users.FindOne(ctx, &User{Email: req.Email})
	if err != nil {
		return nil, errutil.Internal("failed to look up user", err)
	}

	if u == nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
		if err != nil {
			return nil, errutil.Internal("failed to hash password", err)
		}
		u = &User{
			ID:       s.node.Generate().String(),
			Email:    req.Email,
			Password: string(hashed),
			Roles:    datatypes.NewJSONSlice([]rbac.Role{rbac.RoleAdmin}),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, errutil.FromDB(err, "failed to create admin")
		}
		zapLog.Info("admin created", zap.String("user_id", u.ID))
		return u, nil
	}

	if slices.Contains(u.Roles, rbac.RoleAdmin) {
		zapLog.Info("admin already present", zap.String("user_id", u.ID))
		return u, nil
	}

	roles := append(slices.Clone([]rbac.Role(u.Roles)), rbac.RoleAdmin)
	u.Roles = datatypes.NewJSONSlice(roles)
	if err := s.users.Update(ctx, u.ID, map[string]any{"roles": u.Roles}); err != nil {
		return nil, errutil.Internal("failed to promote admin", err)
	}
	zapLog.Info("user promoted to admin", zap.String("user_id", u.ID))
	return u, nil
}
