package queries

import (
	"context"

	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/usecase/shared"
)

const defaultWebhookEventLimit = 50

type WebhookEventQueries interface {
	ListRecent(ctx context.Context, limit int32) ([]*WebhookEventView, error)
}

type WebhookEventViewRepo interface {
	ListRecent(ctx context.Context, dbtx db.DBTX, limit int32) ([]*WebhookEventView, error)
}

type webhookEventQueriesImpl struct {
	uow  shared.UnitOfWork
	repo WebhookEventViewRepo
}

func NewWebhookEventQueries(uow shared.UnitOfWork, repo WebhookEventViewRepo) WebhookEventQueries {
	return &webhookEventQueriesImpl{uow: uow, repo: repo}
}

func (q *webhookEventQueriesImpl) ListRecent(ctx context.Context, limit int32) ([]*WebhookEventView, error) {
	if limit <= 0 {
		limit = defaultWebhookEventLimit
	}

	var views []*WebhookEventView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.repo.ListRecent(ctx, dbtx, limit)
		if err != nil {
			return err
		}
		views = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
