package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/httpapi"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

const secret = "0123456789abcdef0123456789abcdef"

func newEngine(t *testing.T, opts ...GateOption) (*gin.Engine, *token.Manager) {
	t.Helper()
	tm, err := token.New(secret, "test", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Error(), Recovery())
	api := r.Group("/", Gatekeeper(rbac.Default(), tm, opts...))

	ok := func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		httpapi.Respond(c, gin.H{"subject": p.Subject})
	}
	api.POST("/auth/login", ok)
	api.GET("/auth/profile", ok)
	api.POST("/events", ok)
	api.GET("/undeclared", ok)
	api.GET("/boom", func(c *gin.Context) { panic("boom") })

	return r, tm
}

func do(r http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, tm *token.Manager, sub string, roles ...rbac.Role) string {
	t.Helper()
	raw, err := tm.Issue(sub, roles)
	require.NoError(t, err)
	return raw
}

func TestGatekeeperPublicRoute(t *testing.T) {
	r, _ := newEngine(t)
	w := do(r, http.MethodPost, "/auth/login", "")
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGatekeeperRejectsMissingOrBadCredential(t *testing.T) {
	r, _ := newEngine(t)

	w := do(r, http.MethodGet, "/auth/profile", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/auth/profile", "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, http.StatusUnauthorized, env.Code)
	require.Equal(t, "/auth/profile", env.Path)
}

func TestGatekeeperAuthorizesByRole(t *testing.T) {
	r, tm := newEngine(t)

	w := do(r, http.MethodPost, "/events", issue(t, tm, "1", rbac.RoleUser))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/events", issue(t, tm, "1", rbac.RoleOperator))
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/auth/profile", issue(t, tm, "1"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"subject":"1"`)
}

func TestGatekeeperUndeclaredRouteNeedsAuthOnly(t *testing.T) {
	r, tm := newEngine(t)

	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/undeclared", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/undeclared", issue(t, tm, "9")).Code)
}

func TestGatekeeperSubjectValidator(t *testing.T) {
	validator := func(_ context.Context, subject string) error {
		switch subject {
		case "gone":
			return errutil.NotFound("user not found", nil)
		case "broken":
			return errors.New("db down")
		}
		return nil
	}
	r, tm := newEngine(t, WithSubjectValidator(validator))

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/auth/profile", issue(t, tm, "alive")).Code)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/profile", issue(t, tm, "gone")).Code)
	require.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/auth/profile", issue(t, tm, "broken")).Code)
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	r, tm := newEngine(t)

	w := do(r, http.MethodGet, "/boom", issue(t, tm, "1"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Internal server error")
}

func TestUnknownRouteIs404(t *testing.T) {
	r, _ := newEngine(t)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nowhere", "").Code)
}
