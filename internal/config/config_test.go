package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", AdminID: 42},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Storage.Driver != StorageFile || cfg.Storage.Path != "bookings.json" {
		t.Errorf("storage = %q/%q", cfg.Storage.Driver, cfg.Storage.Path)
	}
	if cfg.Catalog.Empty() {
		t.Error("empty catalog must fall back to the built-in one")
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		frag   string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "telegram.token"},
		{"missing admin", func(c *Config) { c.Telegram.AdminID = 0 }, "telegram.admin_id"},
		{"bad run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "run_mode"},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = RunModeWebhook }, "webhook.url"},
		{"bad storage driver", func(c *Config) { c.Storage.Driver = "tape" }, "storage.driver"},
		{"postgres without host", func(c *Config) { c.Storage.Driver = StoragePostgres }, "storage.postgres"},
		{"bad rate limit exclude", func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"inline_query"} }, "exclude_updates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("err = %v, want mention of %q", err, tc.frag)
			}
		})
	}
}

func TestNormalizePostgresDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = StoragePostgres
	cfg.Storage.Postgres = PostgresConfig{Host: "db", Name: "tourbot", User: "bot"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.Postgres.SSLMode != "disable" {
		t.Errorf("sslmode = %q", cfg.Storage.Postgres.SSLMode)
	}
	if cfg.Storage.Postgres.MaxConnections != 4 {
		t.Errorf("max_connections = %d", cfg.Storage.Postgres.MaxConnections)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
telegram:
  token: "123:abc"
  admin_id: 42
payment:
  kaspi_phone: "+7 747 048 5449"
  halyk_phone: "+7 7470485449"
storage:
  driver: file
  path: ` + filepath.Join(dir, "bookings.json") + `
catalog:
  directions:
    - {key: charyn, name: "Чарынский каньон"}
  tour_types:
    - {key: photo, name: "Фототур", price: 35000}
  dates: ["19 января"]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("admin_id = %d", cfg.Telegram.AdminID)
	}
	if cfg.Payment.KaspiPhone != "+7 747 048 5449" {
		t.Errorf("kaspi_phone = %q", cfg.Payment.KaspiPhone)
	}
	if len(cfg.Catalog.Directions) != 1 || cfg.Catalog.Directions[0].Key != "charyn" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	tt, ok := cfg.Catalog.TourType("photo")
	if !ok || tt.Price != 35000 {
		t.Errorf("tour type = %+v, %v", tt, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
