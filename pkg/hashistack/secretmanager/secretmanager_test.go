package secretmanager

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reward-platform/pkg/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newVault(t *testing.T, data map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/reward-platform/jwt" || r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 1},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func vaultConfig(addr string) *config.Config {
	cfg := &config.Config{}
	cfg.Vault.Enable = true
	cfg.Vault.Addr = addr
	cfg.Vault.Token = "root"
	cfg.Vault.Mount = "secret"
	cfg.Vault.JWTPath = "reward-platform/jwt"
	cfg.Vault.JWTKey = "secret"
	return cfg
}

func TestResolveSecretsFromVault(t *testing.T) {
	srv := newVault(t, map[string]any{"secret": "from-vault"})
	cfg := vaultConfig(srv.URL)

	out, err := ResolveSecrets(cfg)
	require.NoError(t, err)
	require.Equal(t, "from-vault", out.JWT.Secret)
	require.Empty(t, cfg.JWT.Secret)
}

func TestResolveSecretsMissingKey(t *testing.T) {
	srv := newVault(t, map[string]any{"other": "x"})

	_, err := ResolveSecrets(vaultConfig(srv.URL))
	require.Error(t, err)
}

func TestResolveSecretsKeepsLocalSecret(t *testing.T) {
	cfg := vaultConfig("http://127.0.0.1:1")
	cfg.JWT.Secret = "local"

	out, err := ResolveSecrets(cfg)
	require.NoError(t, err)
	require.Same(t, cfg, out)

	cfg = &config.Config{}
	out, err = ResolveSecrets(cfg)
	require.NoError(t, err)
	require.Same(t, cfg, out)
}
