package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tourbot/internal/booking"
	"tourbot/internal/config"
	"tourbot/internal/logger"
)

// PostgresStore keeps booking records in a bookings table. Writes are
// single-row upserts, so the database serializes concurrent mutations
// without an extra process-level lock.
type PostgresStore struct {
	db *sqlx.DB
}

// ConnectPostgres opens the database connection, configures the pool,
// and verifies connectivity.
func ConnectPostgres(cfg config.PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := time.Since(start)
	if err != nil {
		logger.Error(ctx, "store", "db.connect_failed",
			slog.String("host", cfg.Host),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.Info(ctx, "store", "db.connected",
		slog.String("host", cfg.Host),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return db, nil
}

// NewPostgres builds a PostgresStore over an open connection.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Get implements booking.Store.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (booking.Record, error) {
	var rec booking.Record
	err := s.db.GetContext(ctx, &rec, `SELECT * FROM bookings WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Record{}, booking.ErrNotFound
	}
	if err != nil {
		return booking.Record{}, fmt.Errorf("select booking: %w", err)
	}
	return rec, nil
}

// Put implements booking.Store.
func (s *PostgresStore) Put(ctx context.Context, userID int64, rec booking.Record) error {
	rec.UserID = userID
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO bookings (
			user_id, state, direction, direction_name,
			tour_type, tour_type_name, price, date,
			receipt_file_id, receipt_kind, status,
			created_at, receipt_received_at, confirmed_at
		) VALUES (
			:user_id, :state, :direction, :direction_name,
			:tour_type, :tour_type_name, :price, :date,
			:receipt_file_id, :receipt_kind, :status,
			:created_at, :receipt_received_at, :confirmed_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			state = EXCLUDED.state,
			direction = EXCLUDED.direction,
			direction_name = EXCLUDED.direction_name,
			tour_type = EXCLUDED.tour_type,
			tour_type_name = EXCLUDED.tour_type_name,
			price = EXCLUDED.price,
			date = EXCLUDED.date,
			receipt_file_id = EXCLUDED.receipt_file_id,
			receipt_kind = EXCLUDED.receipt_kind,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			receipt_received_at = EXCLUDED.receipt_received_at,
			confirmed_at = EXCLUDED.confirmed_at`, rec)
	if err != nil {
		return fmt.Errorf("upsert booking: %w", err)
	}
	return nil
}

// Delete implements booking.Store.
func (s *PostgresStore) Delete(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// List implements booking.Store.
func (s *PostgresStore) List(ctx context.Context) ([]booking.Entry, error) {
	var recs []booking.Record
	if err := s.db.SelectContext(ctx, &recs, `SELECT * FROM bookings ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	entries := make([]booking.Entry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, booking.Entry{UserID: rec.UserID, Record: rec})
	}
	return entries, nil
}
