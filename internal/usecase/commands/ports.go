package commands

import (
	"context"
	"time"

	"coffee-orders/internal/domain/hold"
	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type SlotSnapshot struct {
	ID       uuid.UUID
	ShopID   uuid.UUID
	Start    time.Time
	End      time.Time
	Capacity *int32
}

type OrderSnapshot struct {
	ID               uuid.UUID
	ShopID           uuid.UUID
	SlotID           *uuid.UUID
	Status           order.Status
	PreparationDueAt *time.Time
	PaidAt           *time.Time
}

type SlotRepository interface {
	FindByID(ctx context.Context, db db.DBTX, id uuid.UUID) (*SlotSnapshot, error)
	// FindByIDForUpdate locks the slot row, serializing capacity checks and
	// hold writes for the same slot without blocking other slots.
	FindByIDForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*SlotSnapshot, error)
	ListUpcoming(ctx context.Context, db db.DBTX, shopID uuid.UUID, after time.Time, limit int32) ([]*SlotSnapshot, error)
	Create(ctx context.Context, db db.DBTX, s *slot.Slot) (uuid.UUID, error)
}

type HoldRepository interface {
	Insert(ctx context.Context, db db.DBTX, h *hold.Hold) error
	// DeleteExpired removes every hold with expires_at <= now and reports how
	// many were swept. Idempotent.
	DeleteExpired(ctx context.Context, db db.DBTX, now time.Time) (int64, error)
	CountActive(ctx context.Context, db db.DBTX, slotID uuid.UUID, now time.Time) (int64, error)
	DeleteByOrderID(ctx context.Context, db db.DBTX, orderID uuid.UUID) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, db db.DBTX, o *order.Order, createdAt time.Time) (uuid.UUID, error)
	FindByID(ctx context.Context, db db.DBTX, id uuid.UUID) (*OrderSnapshot, error)
	CountOccupying(ctx context.Context, db db.DBTX, slotID uuid.UUID) (int64, error)
	UpdateSlot(ctx context.Context, db db.DBTX, id, slotID uuid.UUID, preparationDue time.Time) error
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status order.Status, paidAt *time.Time) error
}

type WebhookEventRepository interface {
	Insert(ctx context.Context, db db.DBTX, eventType string, payload []byte, receivedAt time.Time) (uuid.UUID, error)
}
