package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"tourbot/internal/logger"
)

// Service implements the booking state machine on top of a Store. All
// methods are transport-free: they take identifiers and event payloads
// and return the updated record or an error kind the caller can branch
// on (ErrInvalidEvent, ErrUnknownSelection, ErrBadReceipt, ErrNotFound).
type Service struct {
	store   Store
	catalog Catalog
	now     func() time.Time
}

// NewService builds a Service over the given store and catalog.
func NewService(store Store, catalog Catalog) *Service {
	if catalog.Empty() {
		catalog = DefaultCatalog()
	}
	return &Service{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// Catalog returns the published offer the service validates against.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Start discards any in-progress booking for the user and opens a
// fresh one at the destination-choice step.
func (s *Service) Start(ctx context.Context, userID int64) (Record, error) {
	if err := s.store.Delete(ctx, userID); err != nil {
		logger.Warn(ctx, "booking", "start.clear_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	rec := Record{UserID: userID, State: StateChoosingDirection}
	if err := s.store.Put(ctx, userID, rec); err != nil {
		return Record{}, fmt.Errorf("start booking: %w", err)
	}
	return rec, nil
}

// SelectDirection records the chosen destination and advances to
// tour-type choice.
func (s *Service) SelectDirection(ctx context.Context, userID int64, key string) (Record, error) {
	rec, err := s.load(ctx, userID, StateChoosingDirection)
	if err != nil {
		return Record{}, err
	}
	dir, ok := s.catalog.Direction(key)
	if !ok {
		return Record{}, fmt.Errorf("direction %q: %w", key, ErrUnknownSelection)
	}
	rec.Direction = dir.Key
	rec.DirectionName = dir.Name
	rec.State = StateChoosingTourType
	return s.save(ctx, userID, rec)
}

// SelectTourType records the chosen tour category, freezing its price,
// and advances to date choice. The price is never recomputed later, so
// catalog changes mid-flow cannot alter a booking in progress.
func (s *Service) SelectTourType(ctx context.Context, userID int64, key string) (Record, error) {
	rec, err := s.load(ctx, userID, StateChoosingTourType)
	if err != nil {
		return Record{}, err
	}
	tt, ok := s.catalog.TourType(key)
	if !ok {
		return Record{}, fmt.Errorf("tour type %q: %w", key, ErrUnknownSelection)
	}
	rec.TourType = tt.Key
	rec.TourTypeName = tt.Name
	rec.Price = tt.Price
	rec.State = StateChoosingDate
	return s.save(ctx, userID, rec)
}

// SelectDate records the chosen date and advances to the confirmation
// summary.
func (s *Service) SelectDate(ctx context.Context, userID int64, date string) (Record, error) {
	rec, err := s.load(ctx, userID, StateChoosingDate)
	if err != nil {
		return Record{}, err
	}
	if !s.catalog.HasDate(date) {
		return Record{}, fmt.Errorf("date %q: %w", date, ErrUnknownSelection)
	}
	rec.Date = date
	rec.State = StateConfirming
	return s.save(ctx, userID, rec)
}

// Back moves the user one step towards the start of the flow without
// clearing anything already chosen.
func (s *Service) Back(ctx context.Context, userID int64) (Record, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	target, ok := Previous(rec.State)
	if !ok {
		return Record{}, fmt.Errorf("back from %s: %w", rec.State, ErrInvalidEvent)
	}
	rec.State = target
	return s.save(ctx, userID, rec)
}

// Confirm commits the booking and moves the user to receipt upload.
func (s *Service) Confirm(ctx context.Context, userID int64) (Record, error) {
	rec, err := s.load(ctx, userID, StateConfirming)
	if err != nil {
		return Record{}, err
	}
	now := s.now()
	rec.Status = StatusWaitingPayment
	rec.CreatedAt = &now
	rec.State = StateWaitingReceipt
	return s.save(ctx, userID, rec)
}

// Cancel deletes the in-progress record, ending the flow from any
// non-terminal state. Cancelling without an active booking is not an
// error; a confirmed booking is kept for the operator history and
// reports ErrInvalidEvent instead.
func (s *Service) Cancel(ctx context.Context, userID int64) error {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	if rec.State.Terminal() {
		return fmt.Errorf("cancel in %s: %w", rec.State, ErrInvalidEvent)
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}

// SubmitReceipt attaches the payment artifact and moves the booking to
// administrator review. The caller validates the attachment media kind
// (AcceptableReceiptMIME); an empty file reference is rejected here.
func (s *Service) SubmitReceipt(ctx context.Context, userID int64, fileID string, kind ReceiptKind) (Record, error) {
	rec, err := s.load(ctx, userID, StateWaitingReceipt)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(fileID) == "" {
		return Record{}, ErrBadReceipt
	}
	switch kind {
	case ReceiptPhoto, ReceiptDocument:
	default:
		return Record{}, fmt.Errorf("receipt kind %q: %w", kind, ErrBadReceipt)
	}
	now := s.now()
	rec.ReceiptFileID = fileID
	rec.ReceiptKind = kind
	rec.ReceiptAt = &now
	rec.Status = StatusWaitingAdmin
	rec.State = StateWaitingAdminReview
	return s.save(ctx, userID, rec)
}

// Approve is the only path into the confirmed state. It succeeds once:
// when no record exists for the user, or the record is not waiting for
// review, it returns ErrNotFound so the caller can report the benign
// "not found or already processed" outcome instead of failing.
func (s *Service) Approve(ctx context.Context, userID int64) (Record, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("approve booking: %w", err)
	}
	if rec.State != StateWaitingAdminReview {
		return Record{}, ErrNotFound
	}
	now := s.now()
	rec.Status = StatusConfirmed
	rec.ConfirmedAt = &now
	rec.State = StateConfirmed
	return s.save(ctx, userID, rec)
}

// Current returns the user's active record, if any, so the dispatcher
// can phrase corrective replies for events that are invalid in the
// current state.
func (s *Service) Current(ctx context.Context, userID int64) (Record, error) {
	return s.store.Get(ctx, userID)
}

// List returns every stored record for operator tooling, confirmed
// bookings included.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return entries, nil
}

// load fetches the user's record and checks the event is legal for its
// current state.
func (s *Service) load(ctx context.Context, userID int64, want State) (Record, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if rec.State != want {
		return Record{}, fmt.Errorf("in %s, expected %s: %w", rec.State, want, ErrInvalidEvent)
	}
	return rec, nil
}

func (s *Service) save(ctx context.Context, userID int64, rec Record) (Record, error) {
	if err := s.store.Put(ctx, userID, rec); err != nil {
		logger.Error(ctx, "booking", "store.put_failed",
			slog.Int64("user_id", userID),
			slog.String("state", string(rec.State)),
			slog.String("err", err.Error()),
		)
		return Record{}, fmt.Errorf("persist booking: %w", err)
	}
	return rec, nil
}
