package user

import (
	"context"
	"errors"
	"strings"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/gen"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/repository"
	"reward-platform/pkg/token"
	"reward-platform/pkg/validate"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	users  repository.Repository[User]
	tokens *token.Manager
	cost   int
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Tokens *token.Manager
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		users:  repository.ProvideStore[User](p.DB),
		tokens: p.Tokens,
		cost:   bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	zapLog := logger.FromContext(ctx)

	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindOne(ctx, &User{Email: req.Email})
	if err != nil {
		zapLog.Error("failed to look up user", zap.Error(err))
		return nil, errutil.Internal("failed to register user", err)
	}
	if existing != nil {
		return nil, errutil.Conflict(errutil.DuplicateKeyMessage("email"), nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, errutil.Internal("failed to hash password", err)
	}

	u := &User{
		ID:       s.node.Generate().String(),
		Email:    req.Email,
		Password: string(hashed),
		Roles:    datatypes.NewJSONSlice([]rbac.Role{rbac.RoleUser}),
	}
	if err := s.users.Create(ctx, u); err != nil {
		zapLog.Error("failed to create user", zap.Error(err))
		return nil, errutil.FromDB(err, "failed to register user")
	}

	zapLog.Info("user registered", zap.String("user_id", u.ID))
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.users.FindOne(ctx, &User{Email: req.Email})
	if err != nil {
		logger.FromContext(ctx).Error("failed to look up user", zap.Error(err))
		return nil, errutil.Internal("failed to login", err)
	}

	errInvalid := errutil.Unauthorized("invalid email or password", nil)
	if u == nil {
		return nil, errInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalid
		}
		return nil, errutil.Internal("failed to verify password", err)
	}

	return s.issue(u)
}

func (s *Service) issue(u *User) (*TokenResponse, error) {
	raw, err := s.tokens.Issue(u.ID, u.Roles)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: raw}, nil
}

func (s *Service) Profile(p rbac.Principal) Profile {
	roles := p.Roles
	if roles == nil {
		roles = []rbac.Role{}
	}
	return Profile{UserID: p.Subject, Roles: roles}
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.Find(ctx, nil)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list users", zap.Error(err))
		return nil, errutil.Internal("failed to list users", err)
	}
	return users, nil
}

func (s *Service) findByID(ctx context.Context, id string) (*User, error) {
	if !gen.ValidID(id) {
		return nil, errutil.NotFound("User not found", nil)
	}

	u, err := s.users.FindOne(ctx, &User{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to get user", err)
	}
	if u == nil {
		return nil, errutil.NotFound("User not found", nil)
	}
	return u, nil
}

func (s *Service) UpdateRoles(ctx context.Context, id string, req ChangeRolesRequest) (*User, error) {
	roles, err := rbac.ParseRoles(req.Roles)
	if err != nil {
		return nil, err
	}

	u, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Roles = datatypes.NewJSONSlice(roles)
	if err := s.users.Update(ctx, u.ID, map[string]any{"roles": u.Roles}); err != nil {
		logger.FromContext(ctx).Error("failed to update roles", zap.String("user_id", u.ID), zap.Error(err))
		return nil, errutil.Internal("failed to update roles", err)
	}

	logger.FromContext(ctx).Info("user roles changed", zap.String("user_id", u.ID), zap.Any("roles", roles))
	return s.findByID(ctx, u.ID)
}

// Exists rejects credentials whose subject was removed from the directory.
func (s *Service) Exists(ctx context.Context, subject string) error {
	_, err := s.findByID(ctx, subject)
	return err
}
