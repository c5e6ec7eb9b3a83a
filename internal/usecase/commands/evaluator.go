package commands

import (
	"context"
	"time"

	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra/db"
)

// CapacityEvaluator computes the remaining capacity of a slot. Unlimited
// slots short-circuit without touching the stores; bounded slots first sweep
// expired holds globally, then count active holds and occupying orders.
type CapacityEvaluator struct {
	holds  HoldRepository
	orders OrderRepository
}

func NewCapacityEvaluator(holds HoldRepository, orders OrderRepository) *CapacityEvaluator {
	return &CapacityEvaluator{holds: holds, orders: orders}
}

// Remaining returns nil for unlimited capacity. The result may be zero or
// negative when admissions raced within a hold TTL window; callers treat
// that as full, never as an error.
func (e *CapacityEvaluator) Remaining(ctx context.Context, dbtx db.DBTX, snap *SlotSnapshot, now time.Time) (*int32, error) {
	s := slot.ReconstructSlot(snap.ID, snap.ShopID, snap.Start, snap.End, snap.Capacity)
	if s.Unlimited() {
		return nil, nil
	}

	// The sweep is not scoped to this slot; its cost is amortized across
	// every capacity check instead of a background timer.
	if _, err := e.holds.DeleteExpired(ctx, dbtx, now); err != nil {
		return nil, err
	}

	activeHolds, err := e.holds.CountActive(ctx, dbtx, s.ID(), now)
	if err != nil {
		return nil, err
	}
	occupying, err := e.orders.CountOccupying(ctx, dbtx, s.ID())
	if err != nil {
		return nil, err
	}

	return s.Remaining(activeHolds, occupying), nil
}

// HasCapacity treats nil as unlimited and anything above zero as admissible.
func HasCapacity(remaining *int32) bool {
	return remaining == nil || *remaining > 0
}
