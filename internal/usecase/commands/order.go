package commands

import (
	"context"

	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/pkg/errs"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateOrderItemInput struct {
	Name           string
	UnitPriceCents int64
	Qty            int32
}

type CreateOrderInput struct {
	ShopID uuid.UUID
	UserID *uuid.UUID
	Note   string
	Items  []CreateOrderItemInput
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (uuid.UUID, error)
}

type orderUseCaseImpl struct {
	uow       shared.UnitOfWork
	orderRepo OrderRepository
	clock     clock.Clock
}

func NewOrderUseCase(uow shared.UnitOfWork, orderRepo OrderRepository, clk clock.Clock) OrderCommands {
	return &orderUseCaseImpl{
		uow:       uow,
		orderRepo: orderRepo,
		clock:     clk,
	}
}

func (u *orderUseCaseImpl) CreateOrder(ctx context.Context, in CreateOrderInput) (uuid.UUID, error) {
	items := make([]order.Item, 0, len(in.Items))
	for _, it := range in.Items {
		item, err := order.NewItem(it.Name, it.UnitPriceCents, it.Qty)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrDomainValidation)
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(in.ShopID, in.UserID, in.Note, items)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var id uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		created, err := u.orderRepo.Create(ctx, dbtx, o, u.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
