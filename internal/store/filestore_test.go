package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tourbot/internal/booking"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookings.json")
	return NewFile(path), path
}

func sampleRecord(userID int64) booking.Record {
	now := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	return booking.Record{
		UserID:        userID,
		State:         booking.StateWaitingReceipt,
		Direction:     "charyn",
		DirectionName: "Чарынский каньон",
		TourType:      "photo",
		TourTypeName:  "Фототур",
		Price:         35000,
		Date:          "19 января",
		Status:        booking.StatusWaitingPayment,
		CreatedAt:     &now,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	st, _ := tempStore(t)
	ctx := context.Background()

	want := sampleRecord(100)
	if err := st.Put(ctx, 100, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := st.Get(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != want.State || got.Price != want.Price || got.Date != want.Date {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.CreatedAt == nil || !got.CreatedAt.Equal(*want.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestFileStoreGetAbsent(t *testing.T) {
	st, _ := tempStore(t)
	if _, err := st.Get(context.Background(), 1); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	st, _ := tempStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, 100, sampleRecord(100)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Delete(ctx, 100); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, 100); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	// Deleting what is not there is a no-op.
	if err := st.Delete(ctx, 100); err != nil {
		t.Fatalf("repeated delete: %v", err)
	}
}

func TestFileStoreDocumentShape(t *testing.T) {
	st, path := tempStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, 42, sampleRecord(42)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	// One JSON object keyed by decimal user id.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document is not a JSON object: %v", err)
	}
	if _, ok := doc["42"]; !ok {
		t.Fatalf("document keys = %v, want key %q", doc, "42")
	}
	if data[len(data)-1] != '\n' {
		t.Error("document must end with a newline")
	}
}

func TestFileStoreToleratesCorruptDocument(t *testing.T) {
	st, path := tempStore(t)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt document: %v", err)
	}
	if _, err := st.Get(ctx, 1); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("get on corrupt document err = %v, want ErrNotFound", err)
	}

	// Writing recovers the document.
	if err := st.Put(ctx, 1, sampleRecord(1)); err != nil {
		t.Fatalf("put after corruption: %v", err)
	}
	if _, err := st.Get(ctx, 1); err != nil {
		t.Fatalf("get after recovery: %v", err)
	}
}

func TestFileStoreSkipsForeignKeysInList(t *testing.T) {
	st, path := tempStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, 7, sampleRecord(7)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]booking.Record
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc["not-a-user"] = booking.Record{}
	edited, _ := json.Marshal(doc)
	if err := os.WriteFile(path, edited, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != 7 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestFileStoreListOrdered(t *testing.T) {
	st, _ := tempStore(t)
	ctx := context.Background()

	for _, id := range []int64{300, 100, 200} {
		if err := st.Put(ctx, id, sampleRecord(id)); err != nil {
			t.Fatalf("put %d: %v", id, err)
		}
	}
	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{100, 200, 300}
	if len(entries) != len(want) {
		t.Fatalf("len = %d, want %d", len(entries), len(want))
	}
	for i, id := range want {
		if entries[i].UserID != id {
			t.Fatalf("entries[%d].UserID = %d, want %d", i, entries[i].UserID, id)
		}
	}
}

func TestFileStoreConcurrentWriters(t *testing.T) {
	st, _ := tempStore(t)
	ctx := context.Background()

	const users = 8
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if err := st.Put(ctx, id, sampleRecord(id)); err != nil {
					t.Errorf("put %d: %v", id, err)
					return
				}
			}
		}(int64(i + 1))
	}
	wg.Wait()

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != users {
		t.Fatalf("stored %d records, want %d", len(entries), users)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	if _, err := st.Get(ctx, 1); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := st.Put(ctx, 2, sampleRecord(2)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, 1, sampleRecord(1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != 1 || entries[1].UserID != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if err := st.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, 1); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}
