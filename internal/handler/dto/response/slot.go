package response

import (
	"time"

	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID     uuid.UUID `json:"id"`
	ShopID uuid.UUID `json:"shop_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	// Both are null for unlimited slots.
	Capacity          *int32 `json:"capacity"`
	RemainingCapacity *int32 `json:"remaining_capacity"`
}

type CreateSlotResponse struct {
	SlotID uuid.UUID `json:"slot_id"`
}

type AlternativeSlot struct {
	SlotID            uuid.UUID `json:"slot_id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	RemainingCapacity *int32    `json:"remaining_capacity"`
}

// SlotFullResponse is the 409 body for a failed assignment. Alternatives is
// never null, only possibly empty.
type SlotFullResponse struct {
	Error        string            `json:"error"`
	Code         string            `json:"code"`
	Alternatives []AlternativeSlot `json:"alternatives"`
}

func FromSlotView(rm *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:                rm.ID,
		ShopID:            rm.ShopID,
		Start:             rm.Start,
		End:               rm.End,
		Capacity:          rm.Capacity,
		RemainingCapacity: rm.Remaining,
	}
}

func FromSlotFullError(e *commands.SlotFullError) *SlotFullResponse {
	alternatives := make([]AlternativeSlot, len(e.Alternatives))
	for i, alt := range e.Alternatives {
		alternatives[i] = AlternativeSlot{
			SlotID:            alt.SlotID,
			Start:             alt.Start,
			End:               alt.End,
			RemainingCapacity: alt.Remaining,
		}
	}
	return &SlotFullResponse{
		Error:        "slot_full",
		Code:         "slot_full",
		Alternatives: alternatives,
	}
}
