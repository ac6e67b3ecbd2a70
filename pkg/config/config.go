package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "NEXDAWN"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv         = "NEXDAWN_APP_ENV"
	EnvAPIBaseURL     = "NEXDAWN_API_BASE_URL"
	EnvStorageBackend = "NEXDAWN_STORAGE_BACKEND"
)

// Storage backend selectors.
const (
	StorageBackendMemory = "memory"
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendSQLite = "sqlite"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Search  SearchConfig
	Storage StorageConfig
	Redis   RedisConfig
	Stub    StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NEXDAWN_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"NEXDAWN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEXDAWN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"NEXDAWN_API_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"NEXDAWN_API_TIMEOUT" default:"15s"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", EnvAPIBaseURL, a.BaseURL)
	}
	return nil
}

type SearchConfig struct {
	DebounceWindow time.Duration `envconfig:"NEXDAWN_SEARCH_DEBOUNCE" default:"300ms"`
	MinTermLength  int           `envconfig:"NEXDAWN_SEARCH_MIN_TERM" default:"2"`
}

type StorageConfig struct {
	Backend    string `envconfig:"NEXDAWN_STORAGE_BACKEND" default:"file"`
	StateDir   string `envconfig:"NEXDAWN_STATE_DIR" default:"~/.nexdawn"`
	SQLitePath string `envconfig:"NEXDAWN_SQLITE_PATH" default:"~/.nexdawn/state.db"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendMemory, StorageBackendFile, StorageBackendRedis, StorageBackendSQLite:
		return nil
	}
	return fmt.Errorf("%s must be one of memory, file, redis, sqlite; got %q", EnvStorageBackend, s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"NEXDAWN_REDIS_URL"`
	Address      string        `envconfig:"NEXDAWN_REDIS_ADDR"`
	Password     string        `envconfig:"NEXDAWN_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEXDAWN_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"NEXDAWN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEXDAWN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEXDAWN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StubConfig drives the local fake API used for development and tests.
type StubConfig struct {
	Port              string `envconfig:"NEXDAWN_STUB_PORT" default:"5000"`
	JWTSecret         string `envconfig:"NEXDAWN_STUB_JWT_SECRET" default:"stub-dev-secret"`
	JWTIssuer         string `envconfig:"NEXDAWN_STUB_JWT_ISSUER" default:"nexdawn-stub"`
	ExpirationMinutes int    `envconfig:"NEXDAWN_STUB_JWT_EXPIRATION_MINUTES" default:"60"`
}
