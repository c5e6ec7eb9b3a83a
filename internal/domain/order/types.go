package order

import "errors"

var ErrInvalidStatus = errors.New("invalid order status")

type Status string

const (
	StatusNew       Status = "new"
	StatusPaid      Status = "paid"
	StatusAccepted  Status = "accepted"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusPaid, StatusAccepted, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// CountsTowardOccupancy reports whether an order in this status occupies slot
// capacity on its own. A `new` order occupies only through its hold, so that
// an expired hold frees the capacity again; confirmed states keep occupying
// until cancellation.
func (s Status) CountsTowardOccupancy() bool {
	return s != StatusNew && s != StatusCancelled
}
