package repository

import (
	"context"
	"time"

	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/pgconv"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order, createdAt time.Time) (uuid.UUID, error) {
	const orderStmt = `
INSERT INTO orders (id, shop_id, user_id, status, total_cents, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := dbtx.Exec(ctx, orderStmt,
		o.ID(), o.ShopID(), o.UserID(), o.Status(), o.TotalCents(), o.Note(), createdAt)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	const itemStmt = `
INSERT INTO order_items (id, order_id, name_snapshot, unit_price_cents, qty, line_total_cents)
VALUES ($1, $2, $3, $4, $5, $6)`

	for _, it := range o.Items() {
		_, err := dbtx.Exec(ctx, itemStmt,
			it.ID(), o.ID(), it.NameSnapshot(), it.UnitPriceCents(), it.Qty(), it.LineTotalCents())
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return o.ID(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.OrderSnapshot, error) {
	const query = `
SELECT id, shop_id, slot_id, status, preparation_due_at, paid_at
FROM orders
WHERE id = $1`

	var (
		s      commands.OrderSnapshot
		status string
	)
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ShopID, &s.SlotID, &status, &s.PreparationDueAt, &s.PaidAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	s.Status = order.Status(status)
	return &s, nil
}

// CountOccupying counts orders bound to the slot in a confirmed status. An
// order still in `new` occupies capacity through its hold, so counting it
// here would double-count it while the hold lives and pin the capacity after
// the hold expires.
func (r *OrderRepository) CountOccupying(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (int64, error) {
	const query = `
SELECT COUNT(*)
FROM orders
WHERE slot_id = $1
  AND status NOT IN ('new', 'cancelled')`

	var count int64
	if err := dbtx.QueryRow(ctx, query, slotID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count occupying orders", err)
	}
	return count, nil
}

func (r *OrderRepository) UpdateSlot(ctx context.Context, dbtx db.DBTX, id, slotID uuid.UUID, preparationDue time.Time) error {
	const stmt = `
UPDATE orders SET slot_id = $2, preparation_due_at = $3 WHERE id = $1`

	tag, err := dbtx.Exec(ctx, stmt, id, slotID, preparationDue)
	if err != nil {
		return infra.WrapRepoErr("failed to update order slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status order.Status, paidAt *time.Time) error {
	const stmt = `
UPDATE orders SET status = $2, paid_at = COALESCE($3, paid_at) WHERE id = $1`

	tag, err := dbtx.Exec(ctx, stmt, id, string(status), paidAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) FindViewByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.OrderView, error) {
	const query = `
SELECT id, shop_id, user_id, slot_id, status, preparation_due_at, total_cents, note, created_at, paid_at
FROM orders
WHERE id = $1`

	var v queries.OrderView
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ShopID, &v.UserID, &v.SlotID, &v.Status,
		&v.PreparationDueAt, &v.TotalCents, &v.Note, &v.CreatedAt, &v.PaidAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order view", err)
	}

	items, err := r.findItems(ctx, dbtx, id)
	if err != nil {
		return nil, err
	}
	v.Items = items
	return &v, nil
}

func (r *OrderRepository) findItems(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	const query = `
SELECT id, name_snapshot, unit_price_cents, qty, line_total_cents
FROM order_items
WHERE order_id = $1
ORDER BY name_snapshot ASC`

	rows, err := dbtx.Query(ctx, query, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	defer rows.Close()

	var items []queries.OrderItemView
	for rows.Next() {
		var it queries.OrderItemView
		if err := rows.Scan(&it.ID, &it.NameSnapshot, &it.UnitPriceCents, &it.Qty, &it.LineTotalCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item row", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item rows", err)
	}
	return items, nil
}

func (r *OrderRepository) ListByShop(ctx context.Context, dbtx db.DBTX, shopID *uuid.UUID) ([]*queries.OrderListItem, error) {
	const query = `
SELECT id, shop_id, slot_id, status, total_cents, created_at
FROM orders
WHERE ($1::uuid IS NULL OR shop_id = $1)
ORDER BY created_at DESC`

	rows, err := dbtx.Query(ctx, query, shopID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var result []*queries.OrderListItem
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(&item.ID, &item.ShopID, &item.SlotID, &item.Status, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}
	return result, nil
}
