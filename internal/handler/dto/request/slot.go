package request

import (
	"time"

	"coffee-orders/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	ShopID uuid.UUID `json:"shop_id" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	// Capacity of nil means unlimited.
	Capacity *int32 `json:"capacity,omitempty"`
}

func (r CreateSlotRequest) ToInput() commands.CreateSlotInput {
	return commands.CreateSlotInput{
		ShopID:   r.ShopID,
		Start:    r.Start,
		End:      r.End,
		Capacity: r.Capacity,
	}
}
