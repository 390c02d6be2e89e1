package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/rbac"
)

func TestEnsureAdminCreates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.EnsureAdmin(ctx, " Root@Example.com ", "pw")
	require.NoError(t, err)
	require.Equal(t, "root@example.com", u.Email)
	require.Equal(t, []rbac.Role{rbac.RoleAdmin}, []rbac.Role(u.Roles))

	again, err := svc.EnsureAdmin(ctx, "root@example.com", "other")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
}

func TestEnsureAdminPromotes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "ops@example.com", Password: "pw"})
	require.NoError(t, err)

	u, err := svc.EnsureAdmin(ctx, "ops@example.com", "ignored")
	require.NoError(t, err)
	require.ElementsMatch(t, []rbac.Role{rbac.RoleUser, rbac.RoleAdmin}, []rbac.Role(u.Roles))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.ElementsMatch(t, []rbac.Role{rbac.RoleUser, rbac.RoleAdmin}, []rbac.Role(users[0].Roles))
}

func TestEnsureAdminValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.EnsureAdmin(context.Background(), "not-an-email", "pw")
	require.True(t, errutil.Is(err, errutil.StatusBadRequest))
}
