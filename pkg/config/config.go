package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SGR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "SGR_APP_ENV"
	EnvPort           = "SGR_APP_PORT"
	EnvBackendBaseURL = "SGR_BACKEND_BASE_URL"
	EnvRedisURL       = "SGR_REDIS_URL"
	EnvMapsAPIKey     = "SGR_GOOGLE_MAPS_API_KEY"
)

type Config struct {
	App        AppConfig
	Backend    BackendConfig
	Redis      RedisConfig
	GoogleMaps GoogleMapsConfig
	Contact    ContactConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SGR_APP_ENV" required:"true"`
	Port         string `envconfig:"SGR_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"SGR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SGR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the SGR products REST API. The timeout applies to
// every call; there is no retry layer in front of it.
type BackendConfig struct {
	BaseURL string        `envconfig:"SGR_BACKEND_BASE_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"SGR_BACKEND_TIMEOUT" default:"5s"`
}

// RedisConfig is optional: with neither URL nor address set the category
// directory runs on its in-memory cache alone.
type RedisConfig struct {
	URL          string        `envconfig:"SGR_REDIS_URL"`
	Address      string        `envconfig:"SGR_REDIS_ADDR"`
	Password     string        `envconfig:"SGR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SGR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SGR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SGR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SGR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SGR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SGR_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"SGR_REDIS_CACHE_TTL" default:"1h"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"SGR_GOOGLE_MAPS_API_KEY"`
}

// ContactConfig drives the contacts page. Defaults mirror the Lugano office
// the storefront has always shown.
type ContactConfig struct {
	PlaceQuery string  `envconfig:"SGR_CONTACT_PLACE_QUERY" default:"Via 1, 6900 Lugano, Switzerland"`
	Latitude   float64 `envconfig:"SGR_CONTACT_LAT" default:"46.0037"`
	Longitude  float64 `envconfig:"SGR_CONTACT_LNG" default:"8.9511"`
	Phone      string  `envconfig:"SGR_CONTACT_PHONE" default:"+39 123456789"`
	Email      string  `envconfig:"SGR_CONTACT_EMAIL" default:"info@sgrproducts.com"`
}
