package commands

import (
	"time"

	"coffee-orders/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound           = errs.New("order not found")
	ErrSlotNotFound            = errs.New("slot not found")
	ErrSlotFull                = errs.New("slot full")
	ErrUnknownPaymentResult    = errs.New("unknown payment result")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Alternative is a candidate slot offered to the client when the requested
// slot is full. Remaining of nil means unlimited capacity.
type Alternative struct {
	SlotID    uuid.UUID
	Start     time.Time
	End       time.Time
	Remaining *int32
}

// SlotFullError carries the ranked alternatives alongside the rejection so
// the handler can build the conflict response from a single value.
type SlotFullError struct {
	Alternatives []Alternative
}

func (e *SlotFullError) Error() string {
	return "slot full"
}

func (e *SlotFullError) Unwrap() error {
	return ErrSlotFull
}
