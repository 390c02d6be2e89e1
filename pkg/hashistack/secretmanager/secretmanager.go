package secretmanager

import (
	"context"
	"fmt"
	"time"

	"reward-platform/pkg/config"

	vault "github.com/hashicorp/vault-client-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module resolves secrets held in Vault into the root config before any
// consumer reads it.
var Module = fx.Options(
	fx.Decorate(ResolveSecrets),
)

const readTimeout = 10 * time.Second

func NewClient(cfg *config.Config) (*vault.Client, error) {
	client, err := vault.New(
		vault.WithAddress(cfg.Vault.Addr),
		vault.WithRequestTimeout(readTimeout),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Vault.Token != "" {
		if err := client.SetToken(cfg.Vault.Token); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// ReadKV reads key from the KV v2 secret at path under mount.
func ReadKV(ctx context.Context, client *vault.Client, mount, path, key string) (string, error) {
	resp, err := client.Secrets.KvV2Read(ctx, path, vault.WithMountPath(mount))
	if err != nil {
		return "", fmt.Errorf("read %s/%s: %w", mount, path, err)
	}

	val, ok := resp.Data.Data[key].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("%s/%s has no %q", mount, path, key)
	}
	return val, nil
}

// ResolveSecrets fills JWT.SECRET from Vault when VAULT.ENABLE is on and
// the secret is not set locally.
func ResolveSecrets(cfg *config.Config) (*config.Config, error) {
	if !cfg.Vault.Enable || cfg.JWT.Secret != "" {
		return cfg, nil
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	secret, err := ReadKV(ctx, client, cfg.Vault.Mount, cfg.Vault.JWTPath, cfg.Vault.JWTKey)
	if err != nil {
		return nil, err
	}

	out := *cfg
	out.JWT.Secret = secret
	zap.L().Info("jwt secret resolved from vault", zap.String("path", cfg.Vault.Mount+"/"+cfg.Vault.JWTPath))
	return &out, nil
}
