package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	RateLimit    RateLimitConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Identity.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"HYDRATION_APP_ENV" required:"true"`
	Port         string   `envconfig:"HYDRATION_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"HYDRATION_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"HYDRATION_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"HYDRATION_LOG_FORMAT" default:"json"`
	CORSOrigins  []string `envconfig:"HYDRATION_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"HYDRATION_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"HYDRATION_DB_DSN"`

	Host     string `envconfig:"HYDRATION_DB_HOST"`
	Port     int    `envconfig:"HYDRATION_DB_PORT" default:"5432"`
	User     string `envconfig:"HYDRATION_DB_USER"`
	Password string `envconfig:"HYDRATION_DB_PASSWORD"`
	Name     string `envconfig:"HYDRATION_DB_NAME"`
	SSLMode  string `envconfig:"HYDRATION_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HYDRATION_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HYDRATION_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HYDRATION_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HYDRATION_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"HYDRATION_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HYDRATION_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HYDRATION_REDIS_ADDR"`
	Password     string        `envconfig:"HYDRATION_REDIS_PASSWORD"`
	DB           int           `envconfig:"HYDRATION_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HYDRATION_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HYDRATION_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HYDRATION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HYDRATION_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HYDRATION_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig points the token verifier at the identity provider. A PEM key
// takes precedence over the JWKS endpoint when both are set.
type IdentityConfig struct {
	Issuer              string        `envconfig:"HYDRATION_IDENTITY_ISSUER" required:"true"`
	JWKSURL             string        `envconfig:"HYDRATION_IDENTITY_JWKS_URL"`
	PublicKeyPEM        string        `envconfig:"HYDRATION_IDENTITY_PUBLIC_KEY_PEM"`
	AuthorizedParties   []string      `envconfig:"HYDRATION_IDENTITY_AUTHORIZED_PARTIES"`
	ClockSkew           time.Duration `envconfig:"HYDRATION_IDENTITY_CLOCK_SKEW" default:"5s"`
	JWKSRefreshInterval time.Duration `envconfig:"HYDRATION_IDENTITY_JWKS_REFRESH_INTERVAL" default:"15m"`
	SessionCookie       string        `envconfig:"HYDRATION_IDENTITY_SESSION_COOKIE" default:"__session"`
}

func (i IdentityConfig) UsesPEM() bool {
	return strings.TrimSpace(i.PublicKeyPEM) != ""
}

func (i IdentityConfig) validate() error {
	if i.UsesPEM() || strings.TrimSpace(i.JWKSURL) != "" {
		return nil
	}
	return fmt.Errorf("either %s or %s is required", EnvIdentityJWKSURL, EnvIdentityPublicKeyPEM)
}

type RateLimitConfig struct {
	Window       time.Duration `envconfig:"HYDRATION_RATE_LIMIT_WINDOW" default:"1m"`
	WriteLimit   int           `envconfig:"HYDRATION_RATE_LIMIT_WRITE_LIMIT" default:"30"`
	WriteIPLimit int           `envconfig:"HYDRATION_RATE_LIMIT_WRITE_IP_LIMIT" default:"120"`
}

type CatalogConfig struct {
	DefaultLimit int `envconfig:"HYDRATION_CATALOG_DEFAULT_LIMIT" default:"10"`
	MaxLimit     int `envconfig:"HYDRATION_CATALOG_MAX_LIMIT" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HYDRATION_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"HYDRATION_CRON_INTERVAL" default:"24h"`
	LockTTL           time.Duration `envconfig:"HYDRATION_CRON_LOCK_TTL" default:"30m"`
	ViewRetentionDays int           `envconfig:"HYDRATION_CRON_VIEW_RETENTION_DAYS" default:"90"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
