package commands

import (
	"context"
	"errors"
	"time"

	"coffee-orders/internal/domain/hold"
	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/pkg/config"
	"coffee-orders/internal/pkg/errs"
	"coffee-orders/internal/usecase/shared"

	"github.com/google/uuid"
)

// errAdmissionRejected aborts the admission transaction when the capacity
// check fails; nothing written inside it survives.
var errAdmissionRejected = errs.New("slot admission rejected")

type AssignSlotResult struct {
	OrderID       uuid.UUID
	SlotID        uuid.UUID
	HoldExpiresAt time.Time
}

type SlotAssignmentCommands interface {
	// AssignSlot binds the order to the slot behind a short-lived hold, or
	// fails with *SlotFullError carrying up to three viable alternatives.
	AssignSlot(ctx context.Context, orderID, slotID uuid.UUID) (*AssignSlotResult, error)
}

type slotAssignmentUseCaseImpl struct {
	uow       shared.UnitOfWork
	slotRepo  SlotRepository
	holdRepo  HoldRepository
	orderRepo OrderRepository
	evaluator *CapacityEvaluator
	clock     clock.Clock
	policy    config.SlotsConfig
}

func NewSlotAssignmentUseCase(
	uow shared.UnitOfWork,
	slotRepo SlotRepository,
	holdRepo HoldRepository,
	orderRepo OrderRepository,
	clk clock.Clock,
	policy config.SlotsConfig,
) SlotAssignmentCommands {
	return &slotAssignmentUseCaseImpl{
		uow:       uow,
		slotRepo:  slotRepo,
		holdRepo:  holdRepo,
		orderRepo: orderRepo,
		evaluator: NewCapacityEvaluator(holdRepo, orderRepo),
		clock:     clk,
		policy:    policy,
	}
}

func (u *slotAssignmentUseCaseImpl) AssignSlot(ctx context.Context, orderID, slotID uuid.UUID) (*AssignSlotResult, error) {
	result, shopID, err := u.tryAdmit(ctx, orderID, slotID)
	if err == nil {
		return result, nil
	}

	// A lost race on the hold write is re-run once before giving up: the
	// winner's hold may already have expired by the second attempt.
	if infra.IsKind(err, infra.KindConflict) {
		result, shopID, err = u.tryAdmit(ctx, orderID, slotID)
		if err == nil {
			return result, nil
		}
	}

	if errors.Is(err, errAdmissionRejected) || infra.IsKind(err, infra.KindConflict) {
		return nil, u.rejectWithAlternatives(ctx, shopID)
	}
	return nil, err
}

// tryAdmit runs one Validating -> CapacityCheck -> Admitted pass inside a
// single transaction. The slot row lock taken by FindByIDForUpdate serializes
// concurrent attempts on the same slot, so the capacity read and the hold
// write cannot interleave with another request's.
func (u *slotAssignmentUseCaseImpl) tryAdmit(ctx context.Context, orderID, slotID uuid.UUID) (*AssignSlotResult, uuid.UUID, error) {
	var (
		result AssignSlotResult
		shopID uuid.UUID
	)

	err := u.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		ord, err := u.orderRepo.FindByID(ctx, dbtx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		target, err := u.slotRepo.FindByIDForUpdate(ctx, dbtx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		shopID = target.ShopID

		now := u.clock.Now()

		remaining, err := u.evaluator.Remaining(ctx, dbtx, target, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !HasCapacity(remaining) {
			return errAdmissionRejected
		}

		// Re-assignment releases the order's previous hold so an order never
		// occupies two slots at once.
		if _, err := u.holdRepo.DeleteByOrderID(ctx, dbtx, ord.ID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		h := hold.NewHold(target.ID, ord.ID, now, u.policy.HoldTTL)
		if err := u.holdRepo.Insert(ctx, dbtx, h); err != nil {
			// KindConflict propagates so the caller can re-run the check.
			return err
		}

		due := slot.ReconstructSlot(target.ID, target.ShopID, target.Start, target.End, target.Capacity).
			PreparationDue(now, u.policy.LeadTime)
		if err := u.orderRepo.UpdateSlot(ctx, dbtx, ord.ID, target.ID, due); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = AssignSlotResult{
			OrderID:       ord.ID,
			SlotID:        target.ID,
			HoldExpiresAt: h.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, shopID, err
	}
	return &result, shopID, nil
}

// rejectWithAlternatives collects upcoming slots of the same shop that still
// have capacity, ordered by start time, capped by the configured maximum. It
// runs outside the admission transaction, after its rollback.
func (u *slotAssignmentUseCaseImpl) rejectWithAlternatives(ctx context.Context, shopID uuid.UUID) error {
	now := u.clock.Now()

	var alternatives []Alternative
	err := u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		candidates, err := u.slotRepo.ListUpcoming(ctx, dbtx, shopID, now, u.policy.AlternativeCandidates)
		if err != nil {
			return err
		}
		for _, cand := range candidates {
			if len(alternatives) >= u.policy.MaxAlternatives {
				break
			}
			remaining, err := u.evaluator.Remaining(ctx, dbtx, cand, now)
			if err != nil {
				return err
			}
			if !HasCapacity(remaining) {
				continue
			}
			alternatives = append(alternatives, Alternative{
				SlotID:    cand.ID,
				Start:     cand.Start,
				End:       cand.End,
				Remaining: remaining,
			})
		}
		return nil
	})
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &SlotFullError{Alternatives: alternatives}
}
