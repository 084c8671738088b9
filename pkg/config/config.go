package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "GIFTPOOL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Funding      FundingConfig
	Push         PushConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GIFTPOOL_APP_ENV" required:"true"`
	Port         string `envconfig:"GIFTPOOL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GIFTPOOL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTPOOL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GIFTPOOL_DB_DSN"`

	Host     string `envconfig:"GIFTPOOL_DB_HOST"`
	Port     int    `envconfig:"GIFTPOOL_DB_PORT" default:"5432"`
	User     string `envconfig:"GIFTPOOL_DB_USER"`
	Password string `envconfig:"GIFTPOOL_DB_PASSWORD"`
	Name     string `envconfig:"GIFTPOOL_DB_NAME"`
	SSLMode  string `envconfig:"GIFTPOOL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIFTPOOL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTPOOL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTPOOL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTPOOL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTPOOL_REDIS_URL"`
	Address      string        `envconfig:"GIFTPOOL_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTPOOL_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTPOOL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTPOOL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTPOOL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTPOOL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTPOOL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTPOOL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GIFTPOOL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GIFTPOOL_JWT_ISSUER" default:"giftpool"`
	ExpirationMinutes int    `envconfig:"GIFTPOOL_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GIFTPOOL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GIFTPOOL_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"GIFTPOOL_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"GIFTPOOL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GIFTPOOL_ARGON_KEY_LEN" default:"32"`
}

// FundingConfig carries the campaign business constants. Amounts are in won.
type FundingConfig struct {
	MinPledgeAmount int    `envconfig:"GIFTPOOL_FUNDING_MIN_PLEDGE" default:"100"`
	Timezone        string `envconfig:"GIFTPOOL_FUNDING_TIMEZONE" default:"Asia/Seoul"`
	HistoryPageSize int    `envconfig:"GIFTPOOL_FUNDING_HISTORY_PAGE_SIZE" default:"10"`
}

type PushConfig struct {
	Enabled   bool          `envconfig:"GIFTPOOL_PUSH_ENABLED" default:"false"`
	Endpoint  string        `envconfig:"GIFTPOOL_PUSH_ENDPOINT" default:"https://fcm.googleapis.com/fcm/send"`
	ServerKey string        `envconfig:"GIFTPOOL_PUSH_SERVER_KEY"`
	Timeout   time.Duration `envconfig:"GIFTPOOL_PUSH_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GIFTPOOL_FEATURE_AUTO_MIGRATE" default:"false"`
}
