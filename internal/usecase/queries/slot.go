package queries

import (
	"context"
	"time"

	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotQueries interface {
	// ListByShop returns every slot of the shop with its remaining capacity
	// evaluated at call time, ascending by start.
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*SlotView, error)
}

type SlotViewRepo interface {
	ListByShop(ctx context.Context, dbtx db.DBTX, shopID uuid.UUID, now time.Time) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	uow   shared.UnitOfWork
	repo  SlotViewRepo
	clock clock.Clock
}

func NewSlotQueries(uow shared.UnitOfWork, repo SlotViewRepo, clk clock.Clock) SlotQueries {
	return &slotQueriesImpl{uow: uow, repo: repo, clock: clk}
}

func (q *slotQueriesImpl) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*SlotView, error) {
	var views []*SlotView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.repo.ListByShop(ctx, dbtx, shopID, q.clock.Now())
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
