package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CodeRateLimit CodeRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Compare       CompareConfig
	Notify        NotifyConfig
	Mail          MailConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Eventing      EventingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Compare.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FABLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"FABLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FABLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FABLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) IsTest() bool {
	return strings.EqualFold(a.Env, AppEnvTest)
}

type DBConfig struct {
	DSN    string `envconfig:"FABLINK_DB_DSN"`
	Driver string `envconfig:"FABLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FABLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"FABLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FABLINK_DB_USER"`
	LegacyPassword string `envconfig:"FABLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"FABLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"FABLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FABLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FABLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FABLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FABLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FABLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FABLINK_REDIS_ADDR"`
	Password     string        `envconfig:"FABLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FABLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FABLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FABLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FABLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FABLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FABLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"FABLINK_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"FABLINK_JWT_ISSUER" required:"true"`
}

// CodeRateLimitConfig throttles one-time login code requests.
type CodeRateLimitConfig struct {
	Window     time.Duration `envconfig:"FABLINK_CODE_RATE_LIMIT_WINDOW" default:"1m"`
	EmailLimit int           `envconfig:"FABLINK_CODE_RATE_LIMIT_EMAIL_LIMIT" default:"3"`
	IPLimit    int           `envconfig:"FABLINK_CODE_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FABLINK_AUTO_MIGRATE" default:"false"`
}

// CompareConfig selects the offer badge policy for this deployment.
// Exactly one fastest policy and one best-value policy are active; the
// single-winner pair is the default.
type CompareConfig struct {
	FastestPolicy   string `envconfig:"FABLINK_COMPARE_FASTEST_POLICY" default:"single"`
	BestValuePolicy string `envconfig:"FABLINK_COMPARE_BEST_VALUE_POLICY" default:"single"`
}

func (c CompareConfig) validate() error {
	switch c.FastestPolicy {
	case "single", "threshold":
	default:
		return fmt.Errorf("invalid fastest policy %q (expected single or threshold)", c.FastestPolicy)
	}
	switch c.BestValuePolicy {
	case "single", "weighted":
	default:
		return fmt.Errorf("invalid best value policy %q (expected single or weighted)", c.BestValuePolicy)
	}
	return nil
}

// NotifyConfig gates optional customer-facing notifications.
type NotifyConfig struct {
	ChangeRequestCustomerEmails bool `envconfig:"FABLINK_NOTIFY_CHANGE_REQUEST_CUSTOMER" default:"true"`
}

type MailConfig struct {
	APIKey      string        `envconfig:"FABLINK_MAIL_API_KEY"`
	BaseURL     string        `envconfig:"FABLINK_MAIL_BASE_URL"`
	DefaultFrom string        `envconfig:"FABLINK_MAIL_FROM_EMAIL" default:"no-reply@fablink.io"`
	AdminInbox  string        `envconfig:"FABLINK_MAIL_ADMIN_INBOX" default:"ops@fablink.io"`
	Timeout     time.Duration `envconfig:"FABLINK_MAIL_TIMEOUT" default:"10s"`
}

type PubSubConfig struct {
	ProjectID                string `envconfig:"FABLINK_GCP_PROJECT_ID" required:"true"`
	NotificationTopic        string `envconfig:"FABLINK_PUBSUB_NOTIFICATION_TOPIC" default:"fl-notification-events"`
	NotificationSubscription string `envconfig:"FABLINK_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"fl-notification-worker"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FABLINK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FABLINK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FABLINK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"FABLINK_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
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
