package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"reward-platform/pkg/errutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, method, target string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Handle(method, "/things", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRespondStatusByMethod(t *testing.T) {
	w := serve(t, http.MethodPost, "/things", func(c *gin.Context) { Respond(c, gin.H{"id": "1"}) })
	require.Equal(t, http.StatusCreated, w.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, http.StatusCreated, env.Code)
	require.Equal(t, MessageSuccess, env.Message)
	require.Equal(t, "/things", env.Path)
	require.NotEmpty(t, env.Timestamp)

	w = serve(t, http.MethodGet, "/things?x=1", func(c *gin.Context) { Respond(c, []string{}) })
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "/things?x=1", env.Path)
}

func TestFail(t *testing.T) {
	w := serve(t, http.MethodGet, "/things", func(c *gin.Context) {
		Fail(c, errutil.NotFound("Event not found", nil))
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, http.StatusNotFound, env.Code)
	require.Equal(t, "Event not found", env.Message)
	require.Equal(t, errutil.StatusNotFound, env.Error.Reason)

	w = serve(t, http.MethodGet, "/things", func(c *gin.Context) {
		Fail(c, errors.New("pq: secret detail"))
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "secret detail")
}
