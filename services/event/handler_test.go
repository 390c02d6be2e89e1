package event

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"reward-platform/pkg/config"
	"reward-platform/pkg/health"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/server"
	"reward-platform/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *Service, *token.Manager) {
	t.Helper()
	svc := newTestService(t)
	tm, err := token.New("0123456789abcdef0123456789abcdef", "test", time.Hour)
	require.NoError(t, err)

	r := server.NewEngine(server.EngineParams{Config: &config.Config{}, Health: health.New()})
	api := server.NewAPIGroup(server.APIGroupParams{Engine: r, Table: rbac.Default(), Verifier: tm})
	NewHandler(svc).Register(api)
	return r, svc, tm
}

func send(t *testing.T, r http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestForbiddenCreateHasNoSideEffect(t *testing.T) {
	r, svc, tm := newTestRouter(t)
	user, err := tm.Issue("1", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	w := send(t, r, http.MethodPost, "/events", user, createReq("spring"))
	require.Equal(t, http.StatusForbidden, w.Code)

	events, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	r, _, tm := newTestRouter(t)
	op, err := tm.Issue("10", []rbac.Role{rbac.RoleOperator})
	require.NoError(t, err)
	user, err := tm.Issue("20", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	w := send(t, r, http.MethodPost, "/events", op, createReq("spring"))
	require.Equal(t, http.StatusCreated, w.Code)

	var env struct {
		Data Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "10", env.Data.CreatedBy)
	id := env.Data.ID

	require.Equal(t, http.StatusOK, send(t, r, http.MethodGet, "/events/"+id, user, nil).Code)
	require.Equal(t, http.StatusNotFound, send(t, r, http.MethodGet, "/events/garbage", user, nil).Code)
	require.Equal(t, http.StatusForbidden, send(t, r, http.MethodDelete, "/events/"+id, user, nil).Code)
	require.Equal(t, http.StatusOK, send(t, r, http.MethodDelete, "/events/"+id, op, nil).Code)
	require.Equal(t, http.StatusNotFound, send(t, r, http.MethodGet, "/events/"+id, user, nil).Code)
}
