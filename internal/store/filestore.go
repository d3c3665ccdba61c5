// Package store provides booking.Store implementations: a durable
// single-document JSON file store, an in-memory store for tests and
// development, and a PostgreSQL store.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"tourbot/internal/booking"
	"tourbot/internal/logger"
)

// FileStore keeps every booking record in one indented JSON document
// keyed by decimal user id, so the file stays human-diffable. Each
// operation reads the whole document and rewrites it atomically under
// a single mutex, which serializes read-modify-write cycles within the
// process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFile builds a FileStore persisting to path. The document is
// created lazily on the first write.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

// Get implements booking.Store.
func (s *FileStore) Get(ctx context.Context, userID int64) (booking.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read(ctx)
	rec, ok := all[key(userID)]
	if !ok {
		return booking.Record{}, booking.ErrNotFound
	}
	return rec, nil
}

// Put implements booking.Store.
func (s *FileStore) Put(ctx context.Context, userID int64, rec booking.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read(ctx)
	all[key(userID)] = rec
	return s.write(all)
}

// Delete implements booking.Store.
func (s *FileStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read(ctx)
	if _, ok := all[key(userID)]; !ok {
		return nil
	}
	delete(all, key(userID))
	return s.write(all)
}

// List implements booking.Store.
func (s *FileStore) List(ctx context.Context) ([]booking.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read(ctx)
	entries := make([]booking.Entry, 0, len(all))
	for k, rec := range all {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			// Foreign key in a hand-edited document; skip it.
			continue
		}
		entries = append(entries, booking.Entry{UserID: id, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries, nil
}

// read loads the backing document. A missing or unparseable document
// is tolerated: it is logged and treated as "no data yet" so a corrupt
// file never takes the bot down.
func (s *FileStore) read(ctx context.Context) map[string]booking.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error(ctx, "store", "file.read_failed",
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return map[string]booking.Record{}
	}
	if len(data) == 0 {
		return map[string]booking.Record{}
	}
	var all map[string]booking.Record
	if err := json.Unmarshal(data, &all); err != nil {
		logger.Error(ctx, "store", "file.corrupt",
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return map[string]booking.Record{}
	}
	if all == nil {
		all = map[string]booking.Record{}
	}
	return all
}

// write rewrites the whole document atomically via a temp file rename,
// so readers never observe a half-written document.
func (s *FileStore) write(all map[string]booking.Record) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace bookings document: %w", err)
	}
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
