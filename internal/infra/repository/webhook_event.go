package repository

import (
	"context"
	"time"

	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/usecase/queries"

	"github.com/google/uuid"
)

type WebhookEventRepository struct{}

func NewWebhookEventRepository() *WebhookEventRepository {
	return &WebhookEventRepository{}
}

func (r *WebhookEventRepository) Insert(ctx context.Context, dbtx db.DBTX, eventType string, payload []byte, receivedAt time.Time) (uuid.UUID, error) {
	const stmt = `
INSERT INTO webhook_events (id, event_type, payload, received_at)
VALUES ($1, $2, $3, $4)`

	id := uuid.New()
	_, err := dbtx.Exec(ctx, stmt, id, eventType, payload, receivedAt)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert webhook event", err)
	}
	return id, nil
}

func (r *WebhookEventRepository) ListRecent(ctx context.Context, dbtx db.DBTX, limit int32) ([]*queries.WebhookEventView, error) {
	const query = `
SELECT id, event_type, payload, received_at
FROM webhook_events
ORDER BY received_at DESC
LIMIT $1`

	rows, err := dbtx.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list webhook events", err)
	}
	defer rows.Close()

	var result []*queries.WebhookEventView
	for rows.Next() {
		var v queries.WebhookEventView
		if err := rows.Scan(&v.ID, &v.EventType, &v.Payload, &v.ReceivedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan webhook event row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate webhook event rows", err)
	}
	return result, nil
}
