package queries

import (
	"time"

	"github.com/google/uuid"
)

type SlotView struct {
	ID       uuid.UUID
	ShopID   uuid.UUID
	Start    time.Time
	End      time.Time
	Capacity *int32
	// Remaining is nil for unlimited capacity; may be zero or negative while
	// racing holds are still within their TTL.
	Remaining *int32
}

type OrderItemView struct {
	ID             uuid.UUID
	NameSnapshot   string
	UnitPriceCents int64
	Qty            int32
	LineTotalCents int64
}

type OrderView struct {
	ID               uuid.UUID
	ShopID           uuid.UUID
	UserID           *uuid.UUID
	SlotID           *uuid.UUID
	Status           string
	PreparationDueAt *time.Time
	TotalCents       int64
	Note             string
	CreatedAt        time.Time
	PaidAt           *time.Time
	Items            []OrderItemView
}

type OrderListItem struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	SlotID     *uuid.UUID
	Status     string
	TotalCents int64
	CreatedAt  time.Time
}

type WebhookEventView struct {
	ID         uuid.UUID
	EventType  string
	Payload    []byte
	ReceivedAt time.Time
}
