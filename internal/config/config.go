// Package config loads bot configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"tourbot/internal/booking"
)

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Storage driver names.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// TelegramConfig holds the bot token and administrator identity.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines the long polling timeout; 0 uses
	// the default.
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
	BotFile string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// PostgresConfig holds connection settings for the postgres storage
// driver.
type PostgresConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// StorageConfig selects and configures the booking store backend.
type StorageConfig struct {
	// Driver is one of file, memory, postgres.
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	// Path locates the bookings document for the file driver.
	Path     string         `yaml:"path" envconfig:"STORAGE_PATH"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PaymentConfig holds the requisites shown to the user after they
// confirm a booking.
type PaymentConfig struct {
	KaspiPhone string `yaml:"kaspi_phone" envconfig:"PAYMENT_PHONE_KASPI"`
	HalykPhone string `yaml:"halyk_phone" envconfig:"PAYMENT_PHONE_HALYK"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates all bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Payment   PaymentConfig   `yaml:"payment"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   booking.Catalog `yaml:"catalog"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" {
		driver = StorageFile
	}
	switch driver {
	case StorageFile:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			cfg.Storage.Path = "bookings.json"
		}
	case StorageMemory:
	case StoragePostgres:
		pg := cfg.Storage.Postgres
		if pg.Host == "" || pg.Name == "" || pg.User == "" {
			return fmt.Errorf("storage.postgres requires host, name and user")
		}
		if cfg.Storage.Postgres.SSLMode == "" {
			cfg.Storage.Postgres.SSLMode = "disable"
		}
		if cfg.Storage.Postgres.MaxConnections <= 0 {
			cfg.Storage.Postgres.MaxConnections = 4
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: file, memory, postgres", cfg.Storage.Driver)
	}
	cfg.Storage.Driver = driver

	if cfg.Catalog.Empty() {
		cfg.Catalog = booking.DefaultCatalog()
	}

	allowed := map[string]struct{}{"callback": {}, "message": {}}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
