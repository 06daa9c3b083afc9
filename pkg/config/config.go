package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Google    GoogleOAuthConfig
	AI        AIConfig
	Notifier  NotifierConfig
	RateLimit RateLimitConfig
	Flags     FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HAGGLEHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"HAGGLEHUB_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"HAGGLEHUB_APP_BASE_URL" default:"https://app.hagglehub.app"`
	LogLevel     string `envconfig:"HAGGLEHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HAGGLEHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"HAGGLEHUB_DB_DSN"`

	LegacyHost     string `envconfig:"HAGGLEHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"HAGGLEHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HAGGLEHUB_DB_USER"`
	LegacyPassword string `envconfig:"HAGGLEHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"HAGGLEHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"HAGGLEHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HAGGLEHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAGGLEHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAGGLEHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAGGLEHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HAGGLEHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HAGGLEHUB_REDIS_ADDR"`
	Password     string        `envconfig:"HAGGLEHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"HAGGLEHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HAGGLEHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAGGLEHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAGGLEHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAGGLEHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAGGLEHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HAGGLEHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HAGGLEHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HAGGLEHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"HAGGLEHUB_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"HAGGLEHUB_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"HAGGLEHUB_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"HAGGLEHUB_GOOGLE_REDIRECT_URL"`
}

type AIConfig struct {
	BaseURL string        `envconfig:"HAGGLEHUB_AI_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey  string        `envconfig:"HAGGLEHUB_AI_API_KEY"`
	Model   string        `envconfig:"HAGGLEHUB_AI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"HAGGLEHUB_AI_TIMEOUT" default:"30s"`
}

type NotifierConfig struct {
	Interval        time.Duration `envconfig:"HAGGLEHUB_NOTIFIER_INTERVAL" default:"5m"`
	BackoffBase     time.Duration `envconfig:"HAGGLEHUB_NOTIFIER_BACKOFF_BASE" default:"30s"`
	BackoffCap      time.Duration `envconfig:"HAGGLEHUB_NOTIFIER_BACKOFF_CAP" default:"48m"`
	BackoffMaxTries int           `envconfig:"HAGGLEHUB_NOTIFIER_BACKOFF_MAX_TRIES" default:"5"`
	MetricsPort     string        `envconfig:"HAGGLEHUB_NOTIFIER_METRICS_PORT" default:"9104"`
}

type RateLimitConfig struct {
	Window       time.Duration `envconfig:"HAGGLEHUB_RATE_LIMIT_WINDOW" default:"1m"`
	RequestLimit int           `envconfig:"HAGGLEHUB_RATE_LIMIT_REQUESTS" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HAGGLEHUB_AUTO_MIGRATE" default:"false"`
	MemoryStore bool `envconfig:"HAGGLEHUB_MEMORY_STORE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
