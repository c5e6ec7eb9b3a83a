package request

import (
	"strings"

	"coffee-orders/internal/usecase/commands"

	"github.com/google/uuid"
)

type OrderItemRequest struct {
	Name           string `json:"name" binding:"required"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0"`
	Qty            int32  `json:"qty" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	ShopID uuid.UUID          `json:"shop_id" binding:"required"`
	UserID *uuid.UUID         `json:"user_id,omitempty"`
	Note   string             `json:"note,omitempty"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) ToInput() commands.CreateOrderInput {
	items := make([]commands.CreateOrderItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = commands.CreateOrderItemInput{
			Name:           strings.TrimSpace(it.Name),
			UnitPriceCents: it.UnitPriceCents,
			Qty:            it.Qty,
		}
	}
	return commands.CreateOrderInput{
		ShopID: r.ShopID,
		UserID: r.UserID,
		Note:   r.Note,
		Items:  items,
	}
}

type AssignSlotRequest struct {
	SlotID uuid.UUID `json:"slot_id" binding:"required"`
}
