package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tourbot/internal/booking"
	"tourbot/internal/bot"
	"tourbot/internal/config"
	"tourbot/internal/logger"
	"tourbot/internal/store"
	"tourbot/internal/telegram"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("tourbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Dir:     cfg.Logging.Dir,
		File:    cfg.Logging.BotFile,
		Profile: cfg.Logging.Profile,
	}); err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	bookingStore, closer, err := buildStore(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("store close error: %v", err)
			}
		}()
	}

	svc := booking.NewService(bookingStore, cfg.Catalog)
	app := bot.New(cfg, svc)

	runOpts, err := app.RunOptions()
	if err != nil {
		return fmt.Errorf("bot wiring failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.Run(ctx, runOpts)
}

// buildStore constructs the booking store selected by configuration.
func buildStore(cfg *config.Config) (booking.Store, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return store.NewMemory(), nil, nil
	case config.StoragePostgres:
		if err := store.RunMigrations(cfg.Storage.Postgres); err != nil {
			return nil, nil, err
		}
		db, err := store.ConnectPostgres(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(db)
		return pg, pg, nil
	default:
		return store.NewFile(cfg.Storage.Path), nil, nil
	}
}
