package store

import (
	"context"
	"sort"
	"sync"

	"tourbot/internal/booking"
)

// MemoryStore is a map-backed booking.Store for tests and the dev
// profile. It honours the same serialization contract as FileStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]booking.Record
}

// NewMemory builds an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[int64]booking.Record)}
}

// Get implements booking.Store.
func (s *MemoryStore) Get(_ context.Context, userID int64) (booking.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return booking.Record{}, booking.ErrNotFound
	}
	return rec, nil
}

// Put implements booking.Store.
func (s *MemoryStore) Put(_ context.Context, userID int64, rec booking.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = rec
	return nil
}

// Delete implements booking.Store.
func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

// List implements booking.Store.
func (s *MemoryStore) List(_ context.Context) ([]booking.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]booking.Entry, 0, len(s.records))
	for id, rec := range s.records {
		entries = append(entries, booking.Entry{UserID: id, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries, nil
}
