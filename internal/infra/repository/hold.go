package repository

import (
	"context"
	"time"

	"coffee-orders/internal/domain/hold"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type HoldRepository struct{}

func NewHoldRepository() *HoldRepository {
	return &HoldRepository{}
}

func (r *HoldRepository) Insert(ctx context.Context, dbtx db.DBTX, h *hold.Hold) error {
	const stmt = `
INSERT INTO slot_holds (id, slot_id, order_id, expires_at)
VALUES ($1, $2, $3, $4)`

	_, err := dbtx.Exec(ctx, stmt, h.ID(), h.SlotID(), h.OrderID(), h.ExpiresAt())
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			// One hold per order: a concurrent assignment won the race.
			return infra.WrapRepoErr("hold already exists for order", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert hold", err)
	}
	return nil
}

// DeleteExpired sweeps every hold whose expiry has passed, not just holds on
// one slot; the cost is amortized across all capacity checks.
func (r *HoldRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) (int64, error) {
	const stmt = `DELETE FROM slot_holds WHERE expires_at <= $1`

	tag, err := dbtx.Exec(ctx, stmt, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired holds", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HoldRepository) CountActive(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID, now time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM slot_holds WHERE slot_id = $1 AND expires_at > $2`

	var count int64
	if err := dbtx.QueryRow(ctx, query, slotID, now).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active holds", err)
	}
	return count, nil
}

func (r *HoldRepository) DeleteByOrderID(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) (int64, error) {
	const stmt = `DELETE FROM slot_holds WHERE order_id = $1`

	tag, err := dbtx.Exec(ctx, stmt, orderID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete hold by order", err)
	}
	return tag.RowsAffected(), nil
}
