package repository

import (
	"context"
	"time"

	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/pgconv"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

const slotColumns = `id, shop_id, start_at, end_at, capacity`

func (r *SlotRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.SlotSnapshot, error) {
	const query = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`
	return r.scanSlot(dbtx.QueryRow(ctx, query, id))
}

// FindByIDForUpdate takes a row lock on the slot so that concurrent admission
// attempts on the same slot serialize. Attempts on other slots are unaffected.
func (r *SlotRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.SlotSnapshot, error) {
	const query = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1 FOR UPDATE`
	return r.scanSlot(dbtx.QueryRow(ctx, query, id))
}

func (r *SlotRepository) scanSlot(row interface{ Scan(dest ...any) error }) (*commands.SlotSnapshot, error) {
	var s commands.SlotSnapshot
	err := row.Scan(&s.ID, &s.ShopID, &s.Start, &s.End, &s.Capacity)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}
	return &s, nil
}

func (r *SlotRepository) ListUpcoming(ctx context.Context, dbtx db.DBTX, shopID uuid.UUID, after time.Time, limit int32) ([]*commands.SlotSnapshot, error) {
	const query = `
SELECT ` + slotColumns + `
FROM time_slots
WHERE shop_id = $1 AND start_at >= $2
ORDER BY start_at ASC
LIMIT $3`

	rows, err := dbtx.Query(ctx, query, shopID, after, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list upcoming slots", err)
	}
	defer rows.Close()

	var result []*commands.SlotSnapshot
	for rows.Next() {
		var s commands.SlotSnapshot
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Start, &s.End, &s.Capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return result, nil
}

func (r *SlotRepository) Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) (uuid.UUID, error) {
	const stmt = `
INSERT INTO time_slots (id, shop_id, start_at, end_at, capacity)
VALUES ($1, $2, $3, $4, $5)`

	_, err := dbtx.Exec(ctx, stmt, s.ID(), s.ShopID(), s.Start(), s.End(), s.Capacity())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create slot", err)
	}
	return s.ID(), nil
}

func (r *SlotRepository) ListByShop(ctx context.Context, dbtx db.DBTX, shopID uuid.UUID, now time.Time) ([]*queries.SlotView, error) {
	const query = `
SELECT s.id, s.shop_id, s.start_at, s.end_at, s.capacity,
       (SELECT COUNT(*) FROM slot_holds h
        WHERE h.slot_id = s.id AND h.expires_at > $2)               AS active_holds,
       (SELECT COUNT(*) FROM orders o
        WHERE o.slot_id = s.id AND o.status NOT IN ('new', 'cancelled')) AS occupying
FROM time_slots s
WHERE s.shop_id = $1
ORDER BY s.start_at ASC`

	rows, err := dbtx.Query(ctx, query, shopID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots by shop", err)
	}
	defer rows.Close()

	var result []*queries.SlotView
	for rows.Next() {
		var (
			v                     queries.SlotView
			activeHolds, occupying int64
		)
		if err := rows.Scan(&v.ID, &v.ShopID, &v.Start, &v.End, &v.Capacity, &activeHolds, &occupying); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		v.Remaining = slot.ReconstructSlot(v.ID, v.ShopID, v.Start, v.End, v.Capacity).
			Remaining(activeHolds, occupying)
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return result, nil
}
