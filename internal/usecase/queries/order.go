package queries

import (
	"context"

	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	// List returns orders newest first; a nil shopID means all shops.
	List(ctx context.Context, shopID *uuid.UUID) ([]*OrderListItem, error)
}

type OrderViewRepo interface {
	FindViewByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*OrderView, error)
	ListByShop(ctx context.Context, dbtx db.DBTX, shopID *uuid.UUID) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	uow  shared.UnitOfWork
	repo OrderViewRepo
}

func NewOrderQueries(uow shared.UnitOfWork, repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{uow: uow, repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var view *OrderView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.repo.FindViewByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, shopID *uuid.UUID) ([]*OrderListItem, error) {
	var items []*OrderListItem
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.repo.ListByShop(ctx, dbtx, shopID)
		if err != nil {
			return err
		}
		items = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
