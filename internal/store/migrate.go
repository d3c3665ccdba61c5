package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"tourbot/internal/config"
	"tourbot/internal/logger"
)

// RunMigrations applies pending up migrations from the migrations
// directory before the postgres store is used.
func RunMigrations(cfg config.PostgresConfig) error {
	ctx := context.Background()
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	if err := waitForPostgres(dsn, 30*time.Second); err != nil {
		logger.Error(ctx, "store", "db.not_ready", slog.String("err", err.Error()))
		return fmt.Errorf("database not ready: %w", err)
	}

	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	start := time.Now()
	err = m.Up()
	took := time.Since(start)
	switch err {
	case nil:
		ver, _, _ := m.Version()
		logger.Info(ctx, "store", "db.migrated",
			slog.Uint64("version", uint64(ver)),
			slog.Duration("duration", logger.RoundMS(took)),
		)
	case migrate.ErrNoChange:
		logger.Info(ctx, "store", "db.migrations_current")
	default:
		logger.Error(ctx, "store", "db.migrate_failed",
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("migration execution failed: %w", err)
	}
	return nil
}

// waitForPostgres retries connecting until the database accepts a ping
// or the timeout is reached.
func waitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
