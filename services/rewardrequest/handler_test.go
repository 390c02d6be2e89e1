package rewardrequest

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

func newTestRouter(t *testing.T) (*gin.Engine, *fixture, *token.Manager) {
	t.Helper()
	f := newFixture(t)
	tm, err := token.New("0123456789abcdef0123456789abcdef", "test", time.Hour)
	require.NoError(t, err)

	r := server.NewEngine(server.EngineParams{Config: &config.Config{}, Health: health.New()})
	api := server.NewAPIGroup(server.APIGroupParams{Engine: r, Table: rbac.Default(), Verifier: tm})
	NewHandler(f.svc).Register(api)
	return r, f, tm
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

func issue(t *testing.T, tm *token.Manager, sub string, roles ...rbac.Role) string {
	t.Helper()
	tok, err := tm.Issue(sub, roles)
	require.NoError(t, err)
	return tok
}

type listEnvelope struct {
	Data []RewardRequest `json:"data"`
}

func TestRequestFlowOverHTTP(t *testing.T) {
	r, f, tm := newTestRouter(t)
	f.seedCatalog(t)

	user := issue(t, tm, userID, rbac.RoleUser)
	other := issue(t, tm, "1894650412312068097", rbac.RoleUser)
	operator := issue(t, tm, adminID, rbac.RoleOperator)
	auditor := issue(t, tm, "1894650412312068002", rbac.RoleAuditor)

	w := send(t, r, http.MethodPost, "/reward-requests", user, CreateRequest{EventID: eventID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data RewardRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, Pending, created.Data.Status)

	w = send(t, r, http.MethodPost, "/reward-requests", user, CreateRequest{EventID: eventID})
	require.Equal(t, http.StatusConflict, w.Code)

	w = send(t, r, http.MethodPost, "/reward-requests", other, CreateRequest{EventID: eventID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Operators cannot file requests.
	w = send(t, r, http.MethodPost, "/reward-requests", operator, CreateRequest{EventID: eventID})
	require.Equal(t, http.StatusForbidden, w.Code)

	var list listEnvelope
	w = send(t, r, http.MethodGet, "/reward-requests", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	require.Equal(t, userID, list.Data[0].UserID)

	w = send(t, r, http.MethodGet, "/reward-requests", auditor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)

	w = send(t, r, http.MethodGet, "/admin/reward-requests", user, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = send(t, r, http.MethodGet, "/admin/reward-requests", auditor, nil)
	require.Equal(t, http.StatusOK, w.Code)

	path := "/reward-requests/" + created.Data.ID + "/status"
	w = send(t, r, http.MethodPatch, path, auditor, UpdateStatusRequest{Status: "SUCCESS"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodPatch, path, operator, UpdateStatusRequest{Status: "SUCCESS"})
	require.Equal(t, http.StatusOK, w.Code)

	grants, err := f.inventory.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	require.Equal(t, adminID, grants[0].CreatedBy)

	w = send(t, r, http.MethodPatch, "/reward-requests/nope/status", operator, UpdateStatusRequest{Status: "SUCCESS"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRejectsMalformedEvent(t *testing.T) {
	r, _, tm := newTestRouter(t)
	user := issue(t, tm, userID, rbac.RoleUser)

	w := send(t, r, http.MethodPost, "/reward-requests", user, CreateRequest{EventID: "abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, r, http.MethodPost, "/reward-requests", "", CreateRequest{EventID: eventID})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
