package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = "AGRILINK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AGRILINK_DB_DSN"
	EnvDBHost = "AGRILINK_DB_HOST"
	EnvDBUser = "AGRILINK_DB_USER"
	EnvDBName = "AGRILINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	OTP          OTPConfig
	Admin        AdminConfig
	Frontend     FrontendConfig
	Cron         CronConfig
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
	Env          string `envconfig:"AGRILINK_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRILINK_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"AGRILINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRILINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRILINK_DB_DSN"`
	Driver string `envconfig:"AGRILINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRILINK_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRILINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRILINK_DB_USER"`
	LegacyPassword string `envconfig:"AGRILINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRILINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRILINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRILINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRILINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRILINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRILINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRILINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRILINK_REDIS_ADDR"`
	Password     string        `envconfig:"AGRILINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRILINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRILINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRILINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRILINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRILINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRILINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret         string `envconfig:"AGRILINK_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"AGRILINK_JWT_ISSUER" required:"true"`
	ExpirationDays int    `envconfig:"AGRILINK_JWT_EXPIRATION_DAYS" default:"7"`
}

// TokenTTL returns the session token validity window.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationDays <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationDays) * 24 * time.Hour
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"AGRILINK_OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"AGRILINK_OTP_MAX_ATTEMPTS" default:"3"`
	// ExposeInResponse echoes issued codes back in API responses instead of
	// relying solely on the delivery channel. Development shortcut only.
	ExposeInResponse bool `envconfig:"AGRILINK_OTP_EXPOSE_IN_RESPONSE" default:"false"`
}

// AdminConfig holds the out-of-band admin credential pair. The original
// deployment hardcoded these; they are configuration here.
type AdminConfig struct {
	Phone string `envconfig:"AGRILINK_ADMIN_PHONE" required:"true"`
	OTP   string `envconfig:"AGRILINK_ADMIN_OTP" required:"true"`
}

type FrontendConfig struct {
	DistDir string `envconfig:"AGRILINK_FRONTEND_DIST_DIR"`
}

type CronConfig struct {
	Interval     time.Duration `envconfig:"AGRILINK_CRON_INTERVAL" default:"10m"`
	OTPRetention time.Duration `envconfig:"AGRILINK_CRON_OTP_RETENTION" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AGRILINK_AUTO_MIGRATE" default:"false"`
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
