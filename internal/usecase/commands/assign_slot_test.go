//go:build unit

package commands_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"coffee-orders/internal/domain/hold"
	"coffee-orders/internal/domain/order"
	"coffee-orders/internal/domain/slot"
	"coffee-orders/internal/infra"
	"coffee-orders/internal/infra/db"
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/pkg/config"
	"coffee-orders/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = config.SlotsConfig{
	HoldTTL:               120 * time.Second,
	LeadTime:              10 * time.Minute,
	AlternativeCandidates: 10,
	MaxAlternatives:       3,
}

// fakeUoW runs the unit body directly; fake repositories keep their own
// state, so there is nothing to roll back.
type fakeUoW struct{}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (f *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeStore struct {
	slots  map[uuid.UUID]*commands.SlotSnapshot
	holds  map[uuid.UUID]*hold.Hold
	orders map[uuid.UUID]*commands.OrderSnapshot

	// insertConflicts makes the next N hold inserts fail as lost races.
	insertConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:  make(map[uuid.UUID]*commands.SlotSnapshot),
		holds:  make(map[uuid.UUID]*hold.Hold),
		orders: make(map[uuid.UUID]*commands.OrderSnapshot),
	}
}

func (f *fakeStore) addSlot(shopID uuid.UUID, start time.Time, capacity *int32) uuid.UUID {
	id := uuid.New()
	f.slots[id] = &commands.SlotSnapshot{
		ID: id, ShopID: shopID, Start: start, End: start.Add(30 * time.Minute), Capacity: capacity,
	}
	return id
}

func (f *fakeStore) addOrder(shopID uuid.UUID, status order.Status) uuid.UUID {
	id := uuid.New()
	f.orders[id] = &commands.OrderSnapshot{ID: id, ShopID: shopID, Status: status}
	return id
}

func (f *fakeStore) bindOrder(orderID, slotID uuid.UUID) {
	f.orders[orderID].SlotID = &slotID
}

func (f *fakeStore) addHold(slotID, orderID uuid.UUID, expiresAt time.Time) {
	h := hold.ReconstructHold(uuid.New(), slotID, orderID, expiresAt)
	f.holds[h.ID()] = h
}

// SlotRepository

func (f *fakeStore) FindByID(ctx context.Context, _ db.DBTX, id uuid.UUID) (*commands.SlotSnapshot, error) {
	if s, ok := f.slots[id]; ok {
		return s, nil
	}
	return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
}

func (f *fakeStore) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.SlotSnapshot, error) {
	return f.FindByID(ctx, dbtx, id)
}

func (f *fakeStore) ListUpcoming(_ context.Context, _ db.DBTX, shopID uuid.UUID, after time.Time, limit int32) ([]*commands.SlotSnapshot, error) {
	var result []*commands.SlotSnapshot
	for _, s := range f.slots {
		if s.ShopID == shopID && !s.Start.Before(after) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	if int32(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeStore) Create(_ context.Context, _ db.DBTX, s *slot.Slot) (uuid.UUID, error) {
	f.slots[s.ID()] = &commands.SlotSnapshot{
		ID: s.ID(), ShopID: s.ShopID(), Start: s.Start(), End: s.End(), Capacity: s.Capacity(),
	}
	return s.ID(), nil
}

// HoldRepository

func (f *fakeStore) Insert(_ context.Context, _ db.DBTX, h *hold.Hold) error {
	if f.insertConflicts > 0 {
		f.insertConflicts--
		return infra.WrapRepoErr("hold already exists for order", nil, infra.KindConflict)
	}
	f.holds[h.ID()] = h
	return nil
}

func (f *fakeStore) DeleteExpired(_ context.Context, _ db.DBTX, now time.Time) (int64, error) {
	var removed int64
	for id, h := range f.holds {
		if !h.ExpiresAt().After(now) {
			delete(f.holds, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) CountActive(_ context.Context, _ db.DBTX, slotID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, h := range f.holds {
		if h.SlotID() == slotID && h.Active(now) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) DeleteByOrderID(_ context.Context, _ db.DBTX, orderID uuid.UUID) (int64, error) {
	var removed int64
	for id, h := range f.holds {
		if h.OrderID() == orderID {
			delete(f.holds, id)
			removed++
		}
	}
	return removed, nil
}

// OrderRepository

func (f *fakeStore) CreateOrder(_ context.Context, _ db.DBTX, o *order.Order, _ time.Time) (uuid.UUID, error) {
	f.orders[o.ID()] = &commands.OrderSnapshot{ID: o.ID(), ShopID: o.ShopID(), Status: o.Status()}
	return o.ID(), nil
}

func (f *fakeStore) FindOrderByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.OrderSnapshot, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
}

func (f *fakeStore) CountOccupying(_ context.Context, _ db.DBTX, slotID uuid.UUID) (int64, error) {
	var count int64
	for _, o := range f.orders {
		if o.SlotID != nil && *o.SlotID == slotID && o.Status.CountsTowardOccupancy() {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) UpdateSlot(_ context.Context, _ db.DBTX, id, slotID uuid.UUID, preparationDue time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	o.SlotID = &slotID
	due := preparationDue
	o.PreparationDueAt = &due
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status order.Status, paidAt *time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	o.Status = status
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	return nil
}

// fakeOrderRepo adapts fakeStore to the command port, working around the
// method name clash with the slot repository's FindByID and Create.
type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Create(ctx context.Context, dbtx db.DBTX, o *order.Order, createdAt time.Time) (uuid.UUID, error) {
	return r.store.CreateOrder(ctx, dbtx, o, createdAt)
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.OrderSnapshot, error) {
	return r.store.FindOrderByID(ctx, dbtx, id)
}

func (r *fakeOrderRepo) CountOccupying(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (int64, error) {
	return r.store.CountOccupying(ctx, dbtx, slotID)
}

func (r *fakeOrderRepo) UpdateSlot(ctx context.Context, dbtx db.DBTX, id, slotID uuid.UUID, preparationDue time.Time) error {
	return r.store.UpdateSlot(ctx, dbtx, id, slotID, preparationDue)
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status order.Status, paidAt *time.Time) error {
	return r.store.UpdateStatus(ctx, dbtx, id, status, paidAt)
}

func int32Ptr(v int32) *int32 { return &v }

func newAssignmentFixture() (*fakeStore, *clock.MockClock, commands.SlotAssignmentCommands) {
	store := newFakeStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	uc := commands.NewSlotAssignmentUseCase(
		&fakeUoW{}, store, store, &fakeOrderRepo{store: store}, clk, testPolicy,
	)
	return store, clk, uc
}

func TestAssignSlot_Admit(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(2*time.Hour), int32Ptr(2))
	orderID := store.addOrder(shopID, order.StatusNew)

	result, err := uc.AssignSlot(context.Background(), orderID, slotID)
	require.NoError(t, err)

	assert.Equal(t, orderID, result.OrderID)
	assert.Equal(t, slotID, result.SlotID)
	assert.Equal(t, now.Add(testPolicy.HoldTTL), result.HoldExpiresAt)

	ord := store.orders[orderID]
	require.NotNil(t, ord.SlotID)
	assert.Equal(t, slotID, *ord.SlotID)
	// Slot start is further away than the lead time, so it wins.
	require.NotNil(t, ord.PreparationDueAt)
	assert.Equal(t, now.Add(2*time.Hour), *ord.PreparationDueAt)

	count, _ := store.CountActive(context.Background(), nil, slotID, now)
	assert.Equal(t, int64(1), count)
}

func TestAssignSlot_LeadTimeFloor(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	// Slot starts in 5 minutes, inside the 10 minute lead window.
	slotID := store.addSlot(shopID, now.Add(5*time.Minute), int32Ptr(1))
	orderID := store.addOrder(shopID, order.StatusNew)

	_, err := uc.AssignSlot(context.Background(), orderID, slotID)
	require.NoError(t, err)

	ord := store.orders[orderID]
	require.NotNil(t, ord.PreparationDueAt)
	assert.Equal(t, now.Add(testPolicy.LeadTime), *ord.PreparationDueAt)
}

func TestAssignSlot_UnlimitedCapacity(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), nil)
	for i := 0; i < 10; i++ {
		other := store.addOrder(shopID, order.StatusNew)
		store.addHold(slotID, other, now.Add(-time.Minute))
	}
	orderID := store.addOrder(shopID, order.StatusNew)

	result, err := uc.AssignSlot(context.Background(), orderID, slotID)
	require.NoError(t, err)
	assert.Equal(t, slotID, result.SlotID)

	// Unlimited slots skip the capacity check entirely, so the expired holds
	// above were never swept.
	assert.Len(t, store.holds, 11)
}

func TestAssignSlot_RejectWithAlternatives(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	fullSlot := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	blocker := store.addOrder(shopID, order.StatusNew)
	store.addHold(fullSlot, blocker, now.Add(time.Minute))

	// Candidates: the full slot itself, one full, one in another shop, one in
	// the past, and four viable. Only three may come back, start ascending.
	altFull := store.addSlot(shopID, now.Add(90*time.Minute), int32Ptr(1))
	altBlocker := store.addOrder(shopID, order.StatusPaid)
	store.bindOrder(altBlocker, altFull)

	store.addSlot(uuid.New(), now.Add(2*time.Hour), int32Ptr(5))
	store.addSlot(shopID, now.Add(-time.Hour), int32Ptr(5))

	viable1 := store.addSlot(shopID, now.Add(2*time.Hour), int32Ptr(3))
	viable2 := store.addSlot(shopID, now.Add(3*time.Hour), nil)
	viable3 := store.addSlot(shopID, now.Add(4*time.Hour), int32Ptr(1))
	store.addSlot(shopID, now.Add(5*time.Hour), int32Ptr(2))

	orderID := store.addOrder(shopID, order.StatusNew)

	_, err := uc.AssignSlot(context.Background(), orderID, fullSlot)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrSlotFull)

	var slotFull *commands.SlotFullError
	require.ErrorAs(t, err, &slotFull)
	require.Len(t, slotFull.Alternatives, 3)

	assert.Equal(t, viable1, slotFull.Alternatives[0].SlotID)
	assert.Equal(t, viable2, slotFull.Alternatives[1].SlotID)
	assert.Equal(t, viable3, slotFull.Alternatives[2].SlotID)

	require.NotNil(t, slotFull.Alternatives[0].Remaining)
	assert.Equal(t, int32(3), *slotFull.Alternatives[0].Remaining)
	assert.Nil(t, slotFull.Alternatives[1].Remaining)

	// Rejection must leave no trace on the order.
	assert.Nil(t, store.orders[orderID].SlotID)
}

func TestAssignSlot_AlternativeLimitsFollowPolicy(t *testing.T) {
	newUseCase := func(store *fakeStore, clk *clock.MockClock, policy config.SlotsConfig) commands.SlotAssignmentCommands {
		return commands.NewSlotAssignmentUseCase(
			&fakeUoW{}, store, store, &fakeOrderRepo{store: store}, clk, policy,
		)
	}

	t.Run("max alternatives caps the result", func(t *testing.T) {
		store, clk, _ := newAssignmentFixture()
		policy := testPolicy
		policy.MaxAlternatives = 2
		uc := newUseCase(store, clk, policy)

		shopID := uuid.New()
		now := clk.Now()

		fullSlot := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
		blocker := store.addOrder(shopID, order.StatusNew)
		store.addHold(fullSlot, blocker, now.Add(time.Minute))

		first := store.addSlot(shopID, now.Add(2*time.Hour), int32Ptr(3))
		second := store.addSlot(shopID, now.Add(3*time.Hour), int32Ptr(3))
		store.addSlot(shopID, now.Add(4*time.Hour), int32Ptr(3))

		orderID := store.addOrder(shopID, order.StatusNew)

		_, err := uc.AssignSlot(context.Background(), orderID, fullSlot)
		var slotFull *commands.SlotFullError
		require.ErrorAs(t, err, &slotFull)
		require.Len(t, slotFull.Alternatives, 2)
		assert.Equal(t, first, slotFull.Alternatives[0].SlotID)
		assert.Equal(t, second, slotFull.Alternatives[1].SlotID)
	})

	t.Run("candidate window bounds what is considered", func(t *testing.T) {
		store, clk, _ := newAssignmentFixture()
		policy := testPolicy
		policy.AlternativeCandidates = 1
		uc := newUseCase(store, clk, policy)

		shopID := uuid.New()
		now := clk.Now()

		// The full slot is the earliest upcoming candidate, so a window of one
		// never reaches the viable slot behind it.
		fullSlot := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
		blocker := store.addOrder(shopID, order.StatusNew)
		store.addHold(fullSlot, blocker, now.Add(time.Minute))

		store.addSlot(shopID, now.Add(2*time.Hour), int32Ptr(3))

		orderID := store.addOrder(shopID, order.StatusNew)

		_, err := uc.AssignSlot(context.Background(), orderID, fullSlot)
		var slotFull *commands.SlotFullError
		require.ErrorAs(t, err, &slotFull)
		assert.Empty(t, slotFull.Alternatives)
	})
}

func TestAssignSlot_RejectWhenOccupiedByConfirmedOrder(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	paid := store.addOrder(shopID, order.StatusPaid)
	store.bindOrder(paid, slotID)

	orderID := store.addOrder(shopID, order.StatusNew)

	_, err := uc.AssignSlot(context.Background(), orderID, slotID)
	assert.ErrorIs(t, err, commands.ErrSlotFull)
}

func TestAssignSlot_ExpiredHoldFreesCapacity(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	first := store.addOrder(shopID, order.StatusNew)
	store.bindOrder(first, slotID)
	store.addHold(slotID, first, now.Add(120*time.Second))

	second := store.addOrder(shopID, order.StatusNew)

	// Still within the TTL: rejected.
	_, err := uc.AssignSlot(context.Background(), second, slotID)
	assert.ErrorIs(t, err, commands.ErrSlotFull)

	// Past the TTL the sweep removes the stale hold and the slot frees up.
	clk.Add(121 * time.Second)
	result, err := uc.AssignSlot(context.Background(), second, slotID)
	require.NoError(t, err)
	assert.Equal(t, slotID, result.SlotID)
	assert.Empty(t, holdsForOrder(store, first))
}

func TestAssignSlot_ReassignmentReleasesPreviousHold(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotA := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	slotB := store.addSlot(shopID, now.Add(2*time.Hour), int32Ptr(1))
	orderID := store.addOrder(shopID, order.StatusNew)

	_, err := uc.AssignSlot(context.Background(), orderID, slotA)
	require.NoError(t, err)
	_, err = uc.AssignSlot(context.Background(), orderID, slotB)
	require.NoError(t, err)

	holds := holdsForOrder(store, orderID)
	require.Len(t, holds, 1)
	assert.Equal(t, slotB, holds[0].SlotID())
	assert.Equal(t, slotB, *store.orders[orderID].SlotID)
}

func TestAssignSlot_NotFoundPrecedence(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(1))
	orderID := store.addOrder(shopID, order.StatusNew)

	t.Run("unknown order reported before unknown slot", func(t *testing.T) {
		_, err := uc.AssignSlot(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})

	t.Run("unknown slot with known order", func(t *testing.T) {
		_, err := uc.AssignSlot(context.Background(), orderID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
	})

	t.Run("unknown order with known slot", func(t *testing.T) {
		_, err := uc.AssignSlot(context.Background(), uuid.New(), slotID)
		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}

func TestAssignSlot_RetriesOnceAfterLostRace(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(2))
	orderID := store.addOrder(shopID, order.StatusNew)

	store.insertConflicts = 1
	result, err := uc.AssignSlot(context.Background(), orderID, slotID)
	require.NoError(t, err)
	assert.Equal(t, slotID, result.SlotID)
}

func TestAssignSlot_RepeatedLostRaceBecomesSlotFull(t *testing.T) {
	store, clk, uc := newAssignmentFixture()
	shopID := uuid.New()
	now := clk.Now()

	slotID := store.addSlot(shopID, now.Add(time.Hour), int32Ptr(2))
	orderID := store.addOrder(shopID, order.StatusNew)

	store.insertConflicts = 2
	_, err := uc.AssignSlot(context.Background(), orderID, slotID)
	assert.ErrorIs(t, err, commands.ErrSlotFull)
}

func holdsForOrder(store *fakeStore, orderID uuid.UUID) []*hold.Hold {
	var result []*hold.Hold
	for _, h := range store.holds {
		if h.OrderID() == orderID {
			result = append(result, h)
		}
	}
	return result
}
