package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var (
	configName = "config"
	configType = "yaml"
)

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Database struct {
		Type           string `mapstructure:"TYPE"`
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBNAME         string `mapstructure:"DBNAME"`
		User           string `mapstructure:"USER"`
		Password       string `mapstructure:"PASSWORD"`
		SSLMode        string `mapstructure:"SSLMODE"`
		Timezone       string `mapstructure:"TIMEZONE"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConns    int           `mapstructure:"MAX_OPEN_CONNS"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`
	Redis struct {
		Enable      bool          `mapstructure:"ENABLE"`
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`
	JWT struct {
		Secret    string        `mapstructure:"SECRET"`
		Issuer    string        `mapstructure:"ISSUER"`
		ExpiresIn time.Duration `mapstructure:"EXPIRES_IN"`
	} `mapstructure:"JWT"`
	AccessControl struct {
		Model  string `mapstructure:"MODEL"`
		Policy string `mapstructure:"POLICY"`
	} `mapstructure:"ACCESS_CONTROL"`
	Upstream struct {
		AuthURL  string        `mapstructure:"AUTH_URL"`
		EventURL string        `mapstructure:"EVENT_URL"`
		Timeout  time.Duration `mapstructure:"TIMEOUT"`
	} `mapstructure:"UPSTREAM"`
	Snowflake struct {
		NodeID int64 `mapstructure:"NODE_ID"`
	} `mapstructure:"SNOWFLAKE"`
	Otel struct {
		Enable   bool   `mapstructure:"ENABLE"`
		Protocol string `mapstructure:"PROTOCOL"`
		Endpoint string `mapstructure:"ENDPOINT"`
		Insecure bool   `mapstructure:"INSECURE"`
	} `mapstructure:"OTEL"`
	Pyroscope struct {
		Enable bool   `mapstructure:"ENABLE"`
		Addr   string `mapstructure:"ADDR"`
	} `mapstructure:"PYROSCOPE"`
	Vault struct {
		Enable  bool   `mapstructure:"ENABLE"`
		Addr    string `mapstructure:"ADDR"`
		Token   string `mapstructure:"TOKEN"`
		Mount   string `mapstructure:"MOUNT"`
		JWTPath string `mapstructure:"JWT_PATH"`
		JWTKey  string `mapstructure:"JWT_KEY"`
	} `mapstructure:"VAULT"`
	Seed struct {
		AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
		AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	} `mapstructure:"SEED"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "reward-platform")
	v.SetDefault("APP_VERSION", "dev")

	v.SetDefault("TLS.ENABLE", false)
	v.SetDefault("TLS.CERT_PATH", "")
	v.SetDefault("TLS.KEY_PATH", "")

	v.SetDefault("HTTP_SERVER.ADDR", "8080")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 60*time.Second)

	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "127.0.0.1")
	v.SetDefault("DATABASE.PORT", "5432")
	v.SetDefault("DATABASE.DBNAME", "reward")
	v.SetDefault("DATABASE.USER", "")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.SSLMODE", "disable")
	v.SetDefault("DATABASE.TIMEZONE", "UTC")
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE.CONNECTION_POOL.CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DATABASE.CONNECTION_POOL.CONN_MAX_IDLE_TIME", 10*time.Minute)

	v.SetDefault("REDIS.ENABLE", false)
	v.SetDefault("REDIS.ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.POOL_SIZE", 10)
	v.SetDefault("REDIS.POOL_TIMEOUT", 5*time.Second)

	v.SetDefault("JWT.SECRET", "")
	v.SetDefault("JWT.ISSUER", "reward-platform")
	v.SetDefault("JWT.EXPIRES_IN", time.Hour)

	v.SetDefault("ACCESS_CONTROL.MODEL", "")
	v.SetDefault("ACCESS_CONTROL.POLICY", "")

	v.SetDefault("UPSTREAM.AUTH_URL", "http://127.0.0.1:3001")
	v.SetDefault("UPSTREAM.EVENT_URL", "http://127.0.0.1:3002")
	v.SetDefault("UPSTREAM.TIMEOUT", 5*time.Second)

	v.SetDefault("SNOWFLAKE.NODE_ID", 1)

	v.SetDefault("OTEL.ENABLE", false)
	v.SetDefault("OTEL.PROTOCOL", "http")
	v.SetDefault("OTEL.ENDPOINT", "")
	v.SetDefault("OTEL.INSECURE", true)

	v.SetDefault("PYROSCOPE.ENABLE", false)
	v.SetDefault("PYROSCOPE.ADDR", "http://127.0.0.1:4040")

	v.SetDefault("VAULT.ENABLE", false)
	v.SetDefault("VAULT.ADDR", "http://127.0.0.1:8200")
	v.SetDefault("VAULT.TOKEN", "")
	v.SetDefault("VAULT.MOUNT", "secret")
	v.SetDefault("VAULT.JWT_PATH", "reward-platform/jwt")
	v.SetDefault("VAULT.JWT_KEY", "secret")

	v.SetDefault("SEED.ADMIN_EMAIL", "")
	v.SetDefault("SEED.ADMIN_PASSWORD", "")
}

// LoadConfig reads config.yaml from the working directory when present and
// lets environment variables override any key (HTTP_SERVER.ADDR -> HTTP_SERVER_ADDR).
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// With Vault enabled the secret is resolved after load.
	if cfg.JWT.Secret == "" && !cfg.Vault.Enable {
		return nil, errors.New("JWT_SECRET is required")
	}

	if cfg.TLS.Enable && (cfg.TLS.CertPath == "" || cfg.TLS.KeyPath == "") {
		return nil, errors.New("tls enabled but TLS_CERT_PATH or TLS_KEY_PATH not provided")
	}

	return &cfg, nil
}
