package reward

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

func newTestRouter(t *testing.T) (*gin.Engine, *token.Manager) {
	t.Helper()
	tm, err := token.New("0123456789abcdef0123456789abcdef", "test", time.Hour)
	require.NoError(t, err)

	r := server.NewEngine(server.EngineParams{Config: &config.Config{}, Health: health.New()})
	api := server.NewAPIGroup(server.APIGroupParams{Engine: r, Table: rbac.Default(), Verifier: tm})
	NewHandler(newTestService(t)).Register(api)
	return r, tm
}

func send(t *testing.T, r http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRewardCatalogOverHTTP(t *testing.T) {
	r, tm := newTestRouter(t)
	op, err := tm.Issue("10", []rbac.Role{rbac.RoleOperator})
	require.NoError(t, err)
	user, err := tm.Issue("20", []rbac.Role{rbac.RoleUser})
	require.NoError(t, err)

	base := "/events/" + eventID + "/rewards"
	body := `{"type":"ITEM","quantity":2,"metadata":{"itemId":"potion"}}`

	w := send(t, r, http.MethodPost, base, user, body)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodPost, base, op, body)
	require.Equal(t, http.StatusCreated, w.Code)
	w = send(t, r, http.MethodPost, base, op, `{"type":"ITEM","quantity":3,"metadata":"{\"itemId\":\"potion\"}"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var one struct {
		Data Reward `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	require.EqualValues(t, 5, one.Data.Quantity)

	w = send(t, r, http.MethodGet, base, user, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []Reward `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)

	w = send(t, r, http.MethodPost, base, op, `{"type":"BADGE","quantity":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, r, http.MethodDelete, base+"/"+one.Data.ID, op, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = send(t, r, http.MethodGet, base+"/"+one.Data.ID, user, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
