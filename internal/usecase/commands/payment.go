package commands

import (
	"context"

	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/pkg/errs"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

// PaymentEvent is a verified payment-provider notification. Payload keeps the
// raw request body for auditing.
type PaymentEvent struct {
	OrderID   uuid.UUID
	Result    string
	EventType string
	Payload   []byte
}

type PaymentCommands interface {
	ApplyPaymentEvent(ctx context.Context, ev PaymentEvent) error
}

type paymentUseCaseImpl struct {
	uow       shared.UnitOfWork
	orderRepo OrderRepository
	holdRepo  HoldRepository
	eventRepo WebhookEventRepository
	clock     clock.Clock
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	orderRepo OrderRepository,
	holdRepo HoldRepository,
	eventRepo WebhookEventRepository,
	clk clock.Clock,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:       uow,
		orderRepo: orderRepo,
		holdRepo:  holdRepo,
		eventRepo: eventRepo,
		clock:     clk,
	}
}

func (u *paymentUseCaseImpl) ApplyPaymentEvent(ctx context.Context, ev PaymentEvent) error {
	now := u.clock.Now()

	return u.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if _, err := u.eventRepo.Insert(ctx, dbtx, ev.EventType, ev.Payload, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		ord, err := u.orderRepo.FindByID(ctx, dbtx, ev.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		status, paidAt, err := order.PaymentOutcome(ev.Result, now)
		if err != nil {
			return errs.Mark(err, ErrUnknownPaymentResult)
		}

		if err := u.orderRepo.UpdateStatus(ctx, dbtx, ord.ID, status, paidAt); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// The hold has served its purpose once payment settles. A paid order
		// occupies capacity on its own; a failed one releases it entirely.
		if _, err := u.holdRepo.DeleteByOrderID(ctx, dbtx, ord.ID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
