package commands

import (
	"context"
	"time"

	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/errs"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateSlotInput struct {
	ShopID   uuid.UUID
	Start    time.Time
	End      time.Time
	Capacity *int32
}

type SlotCommands interface {
	CreateSlot(ctx context.Context, in CreateSlotInput) (uuid.UUID, error)
}

type slotUseCaseImpl struct {
	uow      shared.UnitOfWork
	slotRepo SlotRepository
}

func NewSlotUseCase(uow shared.UnitOfWork, slotRepo SlotRepository) SlotCommands {
	return &slotUseCaseImpl{
		uow:      uow,
		slotRepo: slotRepo,
	}
}

func (u *slotUseCaseImpl) CreateSlot(ctx context.Context, in CreateSlotInput) (uuid.UUID, error) {
	s, err := slot.NewSlot(in.ShopID, in.Start, in.End, in.Capacity)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var id uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		created, err := u.slotRepo.Create(ctx, dbtx, s)
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
