package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange = errors.New("slot start must be before end")
	ErrInvalidCapacity  = errors.New("slot capacity must be positive")
)

// Slot is a fixed pickup window during which a shop can fulfill a bounded
// number of orders. A nil capacity means unlimited. Slots are immutable once
// created; the assignment workflow only reads them.
type Slot struct {
	id       uuid.UUID
	shopID   uuid.UUID
	start    time.Time
	end      time.Time
	capacity *int32
}

func NewSlot(shopID uuid.UUID, start, end time.Time, capacity *int32) (*Slot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	if capacity != nil && *capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Slot{
		id:       uuid.New(),
		shopID:   shopID,
		start:    start,
		end:      end,
		capacity: capacity,
	}, nil
}

func ReconstructSlot(id, shopID uuid.UUID, start, end time.Time, capacity *int32) *Slot {
	return &Slot{
		id:       id,
		shopID:   shopID,
		start:    start,
		end:      end,
		capacity: capacity,
	}
}

func (s *Slot) Unlimited() bool {
	return s.capacity == nil
}

// Remaining computes capacity left after counting active holds and occupying
// orders. nil means unlimited. The result may be zero or negative when
// admissions raced within a hold TTL window; callers treat that as "full",
// never as an error.
func (s *Slot) Remaining(activeHolds, occupyingOrders int64) *int32 {
	if s.capacity == nil {
		return nil
	}
	rem := *s.capacity - int32(activeHolds) - int32(occupyingOrders)
	return &rem
}

// PreparationDue is the moment the shop must have the order ready: the slot
// start, but never earlier than now plus the configured lead time.
func (s *Slot) PreparationDue(now time.Time, leadTime time.Duration) time.Time {
	earliest := now.Add(leadTime)
	if s.start.After(earliest) {
		return s.start
	}
	return earliest
}

func (s *Slot) ID() uuid.UUID     { return s.id }
func (s *Slot) ShopID() uuid.UUID { return s.shopID }
func (s *Slot) Start() time.Time  { return s.start }
func (s *Slot) End() time.Time    { return s.end }
func (s *Slot) Capacity() *int32  { return s.capacity }
