package request

import (
	"github.com/google/uuid"
)

// PaymentWebhookRequest is the payment provider's notification body. Status
// is the provider's settlement result, "paid" or "failed".
type PaymentWebhookRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Status  string    `json:"status" binding:"required,oneof=paid failed"`
}
