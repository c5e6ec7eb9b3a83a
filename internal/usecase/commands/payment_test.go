//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type insertedEvent struct {
	eventType  string
	payload    []byte
	receivedAt time.Time
}

type fakeEventRepo struct {
	events []insertedEvent
}

func (r *fakeEventRepo) Insert(_ context.Context, _ db.DBTX, eventType string, payload []byte, receivedAt time.Time) (uuid.UUID, error) {
	r.events = append(r.events, insertedEvent{eventType: eventType, payload: payload, receivedAt: receivedAt})
	return uuid.New(), nil
}

func newPaymentFixture() (*fakeStore, *fakeEventRepo, *clock.MockClock, commands.PaymentCommands) {
	store := newFakeStore()
	events := &fakeEventRepo{}
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	uc := commands.NewPaymentUseCase(&fakeUoW{}, &fakeOrderRepo{store: store}, store, events, clk)
	return store, events, clk, uc
}

func paymentEvent(orderID uuid.UUID, result string) commands.PaymentEvent {
	return commands.PaymentEvent{
		OrderID:   orderID,
		Result:    result,
		EventType: "payment",
		Payload:   []byte(`{"order_id":"` + orderID.String() + `","status":"` + result + `"}`),
	}
}

func TestApplyPaymentEvent_Paid(t *testing.T) {
	store, events, clk, uc := newPaymentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	orderID := store.addOrder(shopID, order.StatusNew)
	store.bindOrder(orderID, slotID)
	store.addHold(slotID, orderID, now.Add(120*time.Second))

	err := uc.ApplyPaymentEvent(context.Background(), paymentEvent(orderID, "paid"))
	require.NoError(t, err)

	ord := store.orders[orderID]
	assert.Equal(t, order.StatusPaid, ord.Status)
	require.NotNil(t, ord.PaidAt)
	assert.Equal(t, now, *ord.PaidAt)

	// The paid order occupies the slot by itself now, so the hold is gone but
	// the slot is still full.
	assert.Empty(t, holdsForOrder(store, orderID))
	occupying, _ := store.CountOccupying(context.Background(), nil, slotID)
	assert.Equal(t, int64(1), occupying)

	require.Len(t, events.events, 1)
	assert.Equal(t, "payment", events.events[0].eventType)
	assert.Equal(t, now, events.events[0].receivedAt)
}

func TestApplyPaymentEvent_Failed(t *testing.T) {
	store, _, clk, uc := newPaymentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	orderID := store.addOrder(shopID, order.StatusNew)
	store.bindOrder(orderID, slotID)
	store.addHold(slotID, orderID, now.Add(120*time.Second))

	err := uc.ApplyPaymentEvent(context.Background(), paymentEvent(orderID, "failed"))
	require.NoError(t, err)

	ord := store.orders[orderID]
	assert.Equal(t, order.StatusCancelled, ord.Status)
	assert.Nil(t, ord.PaidAt)

	// A failed payment releases the slot entirely.
	assert.Empty(t, holdsForOrder(store, orderID))
	occupying, _ := store.CountOccupying(context.Background(), nil, slotID)
	assert.Equal(t, int64(0), occupying)
}

func TestApplyPaymentEvent_UnknownResult(t *testing.T) {
	store, _, _, uc := newPaymentFixture()
	orderID := store.addOrder(uuid.New(), order.StatusNew)

	err := uc.ApplyPaymentEvent(context.Background(), paymentEvent(orderID, "refunded"))
	assert.ErrorIs(t, err, commands.ErrUnknownPaymentResult)
	assert.Equal(t, order.StatusNew, store.orders[orderID].Status)
}

func TestApplyPaymentEvent_OrderNotFound(t *testing.T) {
	_, _, _, uc := newPaymentFixture()

	err := uc.ApplyPaymentEvent(context.Background(), paymentEvent(uuid.New(), "paid"))
	assert.ErrorIs(t, err, commands.ErrOrderNotFound)
}
