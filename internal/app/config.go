package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	SheetsSpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID" required:"true"`
	SheetsCredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"karobar_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	AdminUsername     string `envconfig:"ADMIN_USERNAME" default:"owner"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SheetsSpreadsheetID == "" {
		return nil, errors.New("spreadsheet ID must be provided")
	}
	if cfg.AdminPasswordHash == "" {
		return nil, errors.New("admin password hash must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
