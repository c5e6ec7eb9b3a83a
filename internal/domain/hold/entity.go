package hold

import (
	"time"

	"github.com/google/uuid"
)

// Hold is a short-lived reservation against a slot's capacity, created while
// an order's payment is pending. It counts toward occupancy only until its
// expiry; an order has at most one hold at a time.
type Hold struct {
	id        uuid.UUID
	slotID    uuid.UUID
	orderID   uuid.UUID
	expiresAt time.Time
}

func NewHold(slotID, orderID uuid.UUID, now time.Time, ttl time.Duration) *Hold {
	return &Hold{
		id:        uuid.New(),
		slotID:    slotID,
		orderID:   orderID,
		expiresAt: now.Add(ttl),
	}
}

func ReconstructHold(id, slotID, orderID uuid.UUID, expiresAt time.Time) *Hold {
	return &Hold{
		id:        id,
		slotID:    slotID,
		orderID:   orderID,
		expiresAt: expiresAt,
	}
}

func (h *Hold) Active(now time.Time) bool {
	return h.expiresAt.After(now)
}

func (h *Hold) ID() uuid.UUID        { return h.id }
func (h *Hold) SlotID() uuid.UUID    { return h.slotID }
func (h *Hold) OrderID() uuid.UUID   { return h.orderID }
func (h *Hold) ExpiresAt() time.Time { return h.expiresAt }
