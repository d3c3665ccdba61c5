package booking

import "context"

// Store is the durable mapping from user identifier to that user's
// active booking record. Implementations own their synchronization: a
// read-modify-write of the backing document must not interleave with
// another one, so two users' simultaneous bookings can never drop each
// other's write.
type Store interface {
	// Get returns the record for the user or ErrNotFound.
	Get(ctx context.Context, userID int64) (Record, error)
	// Put stores the record for the user, replacing any previous one.
	Put(ctx context.Context, userID int64, rec Record) error
	// Delete removes the record for the user. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, userID int64) error
	// List returns every stored record ordered by user identifier.
	List(ctx context.Context) ([]Entry, error)
}
