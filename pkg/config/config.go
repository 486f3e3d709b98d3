package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TURBOOST"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Shipping     ShippingConfig
	Payment      PaymentConfig
	ViaCEP       ViaCEPConfig
	GCS          GCSConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TURBOOST_APP_ENV" required:"true"`
	Port         string `envconfig:"TURBOOST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TURBOOST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TURBOOST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TURBOOST_DB_DSN" required:"true"`
	Driver string `envconfig:"TURBOOST_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"TURBOOST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TURBOOST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TURBOOST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TURBOOST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TURBOOST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TURBOOST_REDIS_ADDR"`
	Password     string        `envconfig:"TURBOOST_REDIS_PASSWORD"`
	DB           int           `envconfig:"TURBOOST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TURBOOST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TURBOOST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TURBOOST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TURBOOST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TURBOOST_REDIS_WRITE_TIMEOUT" default:"5s"`

	CartTTL time.Duration `envconfig:"TURBOOST_CART_TTL" default:"720h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TURBOOST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TURBOOST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TURBOOST_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"TURBOOST_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TURBOOST_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TURBOOST_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TURBOOST_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TURBOOST_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TURBOOST_ARGON_KEY_LEN" default:"32"`
}

type ShippingConfig struct {
	BaseURL      string        `envconfig:"TURBOOST_SHIPPING_BASE_URL" required:"true"`
	OriginCEP    string        `envconfig:"TURBOOST_SHIPPING_ORIGIN_CEP" default:"01001000"`
	FetchTimeout time.Duration `envconfig:"TURBOOST_SHIPPING_FETCH_TIMEOUT" default:"8s"`
}

type PaymentConfig struct {
	BaseURL     string `envconfig:"TURBOOST_PAYMENT_BASE_URL" required:"true"`
	AccessToken string `envconfig:"TURBOOST_PAYMENT_ACCESS_TOKEN" required:"true"`
	BackURLBase string `envconfig:"TURBOOST_PAYMENT_BACK_URL_BASE" required:"true"`
}

type ViaCEPConfig struct {
	BaseURL string `envconfig:"TURBOOST_VIACEP_BASE_URL" default:"https://viacep.com.br/ws"`
}

// GCSConfig drives the media upload bucket. Leaving the bucket name
// empty disables uploads; admins then manage image and sound URLs by
// hand.
type GCSConfig struct {
	BucketName             string `envconfig:"TURBOOST_GCS_BUCKET_NAME"`
	CredentialsJSON        string `envconfig:"TURBOOST_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TURBOOST_GOOGLE_APPLICATION_CREDENTIALS"`
	MaxUploadBytes         int64  `envconfig:"TURBOOST_GCS_MAX_UPLOAD_BYTES" default:"20971520"`
}

func (g GCSConfig) Enabled() bool {
	return g.BucketName != ""
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TURBOOST_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"TURBOOST_LOGIN_RATE_IP_LIMIT" default:"10"`
	LoginUsernameLimit int           `envconfig:"TURBOOST_LOGIN_RATE_USERNAME_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TURBOOST_AUTO_MIGRATE" default:"false"`
}
