package response

import (
	"time"

	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	NameSnapshot   string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Qty            int32     `json:"qty"`
	LineTotalCents int64     `json:"line_total_cents"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	ShopID           uuid.UUID           `json:"shop_id"`
	UserID           *uuid.UUID          `json:"user_id,omitempty"`
	SlotID           *uuid.UUID          `json:"slot_id,omitempty"`
	Status           string              `json:"status"`
	PreparationDueAt *time.Time          `json:"preparation_due_at,omitempty"`
	TotalCents       int64               `json:"total_cents"`
	Note             string              `json:"note,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	Items            []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	ID         uuid.UUID  `json:"id"`
	ShopID     uuid.UUID  `json:"shop_id"`
	SlotID     *uuid.UUID `json:"slot_id,omitempty"`
	Status     string     `json:"status"`
	TotalCents int64      `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

type AssignSlotResponse struct {
	Status        string    `json:"status"`
	OrderID       uuid.UUID `json:"order_id"`
	SlotID        uuid.UUID `json:"slot_id"`
	HoldExpiresAt time.Time `json:"hold_expires_at"`
}

func FromOrderView(rm *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	_ = copier.Copy(resp, rm)
	if resp.Items == nil {
		resp.Items = []OrderItemResponse{}
	}
	return resp
}

func FromOrderListItem(rm *queries.OrderListItem) *OrderListResponse {
	return &OrderListResponse{
		ID:         rm.ID,
		ShopID:     rm.ShopID,
		SlotID:     rm.SlotID,
		Status:     rm.Status,
		TotalCents: rm.TotalCents,
		CreatedAt:  rm.CreatedAt,
	}
}

func FromAssignSlotResult(res *commands.AssignSlotResult) *AssignSlotResponse {
	return &AssignSlotResponse{
		Status:        "ok",
		OrderID:       res.OrderID,
		SlotID:        res.SlotID,
		HoldExpiresAt: res.HoldExpiresAt,
	}
}
