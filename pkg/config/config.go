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
	DB           DBConfig
	Redis        RedisConfig
	Relay        RelayConfig
	Payroll      PayrollConfig
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
	Env          string `envconfig:"RELAYPAY_APP_ENV" required:"true"`
	Port         string `envconfig:"RELAYPAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RELAYPAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELAYPAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RELAYPAY_DB_DSN"`
	Driver string `envconfig:"RELAYPAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RELAYPAY_DB_HOST"`
	LegacyPort     int    `envconfig:"RELAYPAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RELAYPAY_DB_USER"`
	LegacyPassword string `envconfig:"RELAYPAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"RELAYPAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"RELAYPAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELAYPAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELAYPAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELAYPAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELAYPAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RELAYPAY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RELAYPAY_REDIS_ADDR"`
	Password     string        `envconfig:"RELAYPAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELAYPAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELAYPAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELAYPAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELAYPAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELAYPAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELAYPAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RelayConfig points at the cross-chain quote provider.
type RelayConfig struct {
	BaseURL string        `envconfig:"RELAYPAY_RELAY_BASE_URL" default:"https://api.relay.link"`
	APIKey  string        `envconfig:"RELAYPAY_RELAY_API_KEY"`
	Timeout time.Duration `envconfig:"RELAYPAY_RELAY_TIMEOUT" default:"15s"`
}

// PayrollConfig tunes the run orchestrator.
type PayrollConfig struct {
	DefaultCurrency string `envconfig:"RELAYPAY_PAYROLL_DEFAULT_CURRENCY" default:"USDC"`
	FallbackFeeBps  int64  `envconfig:"RELAYPAY_PAYROLL_FALLBACK_FEE_BPS" default:"15"`
	WorkerCount     int    `envconfig:"RELAYPAY_PAYROLL_WORKER_COUNT" default:"1"`
	StatusWriteMax  int    `envconfig:"RELAYPAY_PAYROLL_STATUS_WRITE_MAX_ATTEMPTS" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RELAYPAY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RELAYPAY_AUTO_MIGRATE" default:"false"`
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
