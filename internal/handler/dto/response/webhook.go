package response

import (
	"encoding/json"
	"time"

	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
)

type WebhookEventResponse struct {
	ID         uuid.UUID       `json:"id"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

func FromWebhookEventView(rm *queries.WebhookEventView) *WebhookEventResponse {
	return &WebhookEventResponse{
		ID:         rm.ID,
		EventType:  rm.EventType,
		Payload:    json.RawMessage(rm.Payload),
		ReceivedAt: rm.ReceivedAt,
	}
}
