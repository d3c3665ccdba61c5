package booking

import "time"

// State identifies the step of the booking conversation a user is in.
type State string

const (
	StateChoosingDirection  State = "choosing_direction"
	StateChoosingTourType   State = "choosing_tour_type"
	StateChoosingDate       State = "choosing_date"
	StateConfirming         State = "confirming"
	StateWaitingReceipt     State = "waiting_receipt"
	StateWaitingAdminReview State = "waiting_admin_review"
	StateConfirmed          State = "confirmed"
)

// Status mirrors the state for operator-facing display. It is only set
// once the user has committed to the booking.
type Status string

const (
	StatusWaitingPayment Status = "waiting_payment"
	StatusWaitingAdmin   Status = "waiting_admin_confirmation"
	StatusConfirmed      Status = "confirmed"
)

// ReceiptKind describes the media kind of a submitted payment receipt.
type ReceiptKind string

const (
	ReceiptPhoto    ReceiptKind = "photo"
	ReceiptDocument ReceiptKind = "document"
)

// Record holds everything a user has committed to so far. At most one
// record exists per user; absence means no active booking.
type Record struct {
	UserID        int64       `json:"user_id" db:"user_id"`
	State         State       `json:"state" db:"state"`
	Direction     string      `json:"direction,omitempty" db:"direction"`
	DirectionName string      `json:"direction_name,omitempty" db:"direction_name"`
	TourType      string      `json:"tour_type,omitempty" db:"tour_type"`
	TourTypeName  string      `json:"tour_type_name,omitempty" db:"tour_type_name"`
	Price         int         `json:"price,omitempty" db:"price"`
	Date          string      `json:"date,omitempty" db:"date"`
	ReceiptFileID string      `json:"receipt_file_id,omitempty" db:"receipt_file_id"`
	ReceiptKind   ReceiptKind `json:"receipt_kind,omitempty" db:"receipt_kind"`
	Status        Status      `json:"status,omitempty" db:"status"`
	CreatedAt     *time.Time  `json:"created_at,omitempty" db:"created_at"`
	ReceiptAt     *time.Time  `json:"receipt_received_at,omitempty" db:"receipt_received_at"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty" db:"confirmed_at"`
}

// Entry pairs a user identifier with its stored record for listings.
type Entry struct {
	UserID int64
	Record Record
}
