package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/rbac"
)

func newManager(t *testing.T, secret string) *Manager {
	t.Helper()
	m, err := New(secret, "reward-platform", time.Hour)
	require.NoError(t, err)
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newManager(t, "0123456789abcdef0123456789abcdef")

	raw, err := m.Issue("42", []rbac.Role{rbac.RoleUser, rbac.RoleAdmin})
	require.NoError(t, err)

	p, err := m.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "42", p.Subject)
	require.Equal(t, []rbac.Role{rbac.RoleUser, rbac.RoleAdmin}, p.Roles)
}

func TestShortSecretStillSigns(t *testing.T) {
	m := newManager(t, "short")

	raw, err := m.Issue("1", nil)
	require.NoError(t, err)

	p, err := m.Verify(raw)
	require.NoError(t, err)
	require.Empty(t, p.Roles)
}

func TestVerifyExpired(t *testing.T) {
	m := newManager(t, "0123456789abcdef0123456789abcdef")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.Issue("42", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(raw)
	require.True(t, errutil.Is(err, errutil.StatusUnauthorized))
}

func TestVerifyWrongKey(t *testing.T) {
	a := newManager(t, "0123456789abcdef0123456789abcdef")
	b := newManager(t, "fedcba9876543210fedcba9876543210")

	raw, err := a.Issue("42", []rbac.Role{rbac.RoleAdmin})
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.True(t, errutil.Is(err, errutil.StatusUnauthorized))
}

func TestVerifyTampered(t *testing.T) {
	m := newManager(t, "0123456789abcdef0123456789abcdef")

	raw, err := m.Issue("42", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	other, err := m.Issue("43", []rbac.Role{rbac.RoleAdmin})
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]

	_, err = m.Verify(strings.Join(parts, "."))
	require.True(t, errutil.Is(err, errutil.StatusUnauthorized))
}

func TestVerifyMalformed(t *testing.T) {
	m := newManager(t, "0123456789abcdef0123456789abcdef")

	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := m.Verify(raw)
		require.True(t, errutil.Is(err, errutil.StatusUnauthorized), raw)
	}
}

func TestVerifyEmptySubject(t *testing.T) {
	m := newManager(t, "0123456789abcdef0123456789abcdef")

	raw, err := m.Issue("", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	_, err = m.Verify(raw)
	require.True(t, errutil.Is(err, errutil.StatusUnauthorized))
}

func TestFromHeader(t *testing.T) {
	tok, ok := FromHeader("Bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok := FromHeader(h)
		require.False(t, ok, h)
	}
}
