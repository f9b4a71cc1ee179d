package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Stripe   StripeConfig
	Cron     CronConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
	Eventing EventingConfig
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
	Env          string `envconfig:"LONOLEGGI_APP_ENV" required:"true"`
	Port         string `envconfig:"LONOLEGGI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LONOLEGGI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LONOLEGGI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LONOLEGGI_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LONOLEGGI_DB_DSN"`
	Driver string `envconfig:"LONOLEGGI_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LONOLEGGI_DB_HOST"`
	Port     int    `envconfig:"LONOLEGGI_DB_PORT" default:"5432"`
	User     string `envconfig:"LONOLEGGI_DB_USER"`
	Password string `envconfig:"LONOLEGGI_DB_PASSWORD"`
	Name     string `envconfig:"LONOLEGGI_DB_NAME"`
	SSLMode  string `envconfig:"LONOLEGGI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LONOLEGGI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LONOLEGGI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LONOLEGGI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LONOLEGGI_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"LONOLEGGI_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LONOLEGGI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LONOLEGGI_REDIS_ADDR"`
	Password     string        `envconfig:"LONOLEGGI_REDIS_PASSWORD"`
	DB           int           `envconfig:"LONOLEGGI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LONOLEGGI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LONOLEGGI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LONOLEGGI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LONOLEGGI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LONOLEGGI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies access tokens minted by the hosted auth platform.
type JWTConfig struct {
	Secret   string `envconfig:"LONOLEGGI_JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"LONOLEGGI_JWT_ISSUER" required:"true"`
	Audience string `envconfig:"LONOLEGGI_JWT_AUDIENCE"`
}

type CheckoutConfig struct {
	Currency       string        `envconfig:"LONOLEGGI_CHECKOUT_CURRENCY" default:"eur"`
	ReservationTTL time.Duration `envconfig:"LONOLEGGI_CHECKOUT_RESERVATION_TTL" default:"30m"`
	AllowedOrigin  string        `envconfig:"LONOLEGGI_CHECKOUT_ALLOWED_ORIGIN" default:"https://lonoleggi.netlify.app"`
}

type StripeConfig struct {
	APIKey string `envconfig:"LONOLEGGI_STRIPE_API_KEY"`
	Secret string `envconfig:"LONOLEGGI_STRIPE_SECRET"`
	Env    string `envconfig:"LONOLEGGI_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"LONOLEGGI_CRON_INTERVAL" default:"5m"`
	NotificationRetention time.Duration `envconfig:"LONOLEGGI_CRON_NOTIFICATION_RETENTION" default:"720h"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"LONOLEGGI_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"LONOLEGGI_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	RentalsTopic        string `envconfig:"LONOLEGGI_PUBSUB_RENTALS_TOPIC" default:"rental-events"`
	RentalsSubscription string `envconfig:"LONOLEGGI_PUBSUB_RENTALS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LONOLEGGI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LONOLEGGI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LONOLEGGI_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"LONOLEGGI_EVENTING_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if parts[env] == "" {
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
