package inventory

import (
	"bytes"
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

func TestInventoryOverHTTP(t *testing.T) {
	tm, err := token.New("0123456789abcdef0123456789abcdef", "test", time.Hour)
	require.NoError(t, err)
	r := server.NewEngine(server.EngineParams{Config: &config.Config{}, Health: health.New()})
	api := server.NewAPIGroup(server.APIGroupParams{Engine: r, Table: rbac.Default(), Verifier: tm})
	NewHandler(newTestService(t)).Register(api)

	admin, err := tm.Issue("1894650412312068001", []rbac.Role{rbac.RoleAdmin})
	require.NoError(t, err)
	auditor, err := tm.Issue("1894650412312068002", []rbac.Role{rbac.RoleAuditor})
	require.NoError(t, err)
	user, err := tm.Issue(userID, []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	grant := GrantRequest{UserID: userID, ItemID: "potion", Quantity: 3}

	w := send(t, r, http.MethodPost, "/inventory", user, grant)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = send(t, r, http.MethodPost, "/inventory", auditor, grant)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodPost, "/inventory", admin, grant)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data Grant `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "1894650412312068001", created.Data.CreatedBy)

	var list struct {
		Data []Grant `json:"data"`
	}
	w = send(t, r, http.MethodGet, "/inventory", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)

	w = send(t, r, http.MethodGet, "/inventory/"+userID, user, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodGet, "/inventory/"+userID, auditor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	require.Equal(t, "potion", list.Data[0].ItemID)
}
