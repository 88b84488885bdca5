package retentionsvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/internal/domain/disclosure"
	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/domain/retention"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeConn struct{}

func (fakeConn) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeOrders struct {
	byID              map[uuid.UUID]*order.Order
	expiredPending    []*order.Order
	deliveredOverdue  []*order.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[uuid.UUID]*order.Order{}} }
func (f *fakeOrders) Create(context.Context, *order.Order, []*order.Item) error { return nil }
func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	return f.byID[id], nil
}
func (f *fakeOrders) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return f.FindByID(ctx, id)
}
func (f *fakeOrders) Items(context.Context, uuid.UUID) ([]*order.Item, error) { return nil, nil }
func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, _ *bool) error {
	if o, ok := f.byID[id]; ok {
		o.Status = status
	}
	return nil
}
func (f *fakeOrders) AppendEvent(context.Context, *order.Event) error           { return nil }
func (f *fakeOrders) Events(context.Context, uuid.UUID) ([]*order.Event, error) { return nil, nil }
func (f *fakeOrders) ListExpiredPendingApproval(context.Context, time.Time) ([]*order.Order, error) {
	return f.expiredPending, nil
}
func (f *fakeOrders) ListDeliveredPastAutoComplete(context.Context, time.Time) ([]*order.Order, error) {
	return f.deliveredOverdue, nil
}
func (f *fakeOrders) ListByBuyer(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}
func (f *fakeOrders) ListBySeller(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}

type fakeFoods struct{}

func (fakeFoods) Create(context.Context, *catalog.Food) error { return nil }
func (fakeFoods) Update(context.Context, *catalog.Food) error { return nil }
func (fakeFoods) FindByID(context.Context, uuid.UUID) (*catalog.Food, error) { return nil, nil }
func (fakeFoods) FindByIDForUpdate(context.Context, uuid.UUID) (*catalog.Food, error) {
	return nil, nil
}
func (fakeFoods) ListBySeller(context.Context, uuid.UUID) ([]*catalog.Food, error) { return nil, nil }
func (fakeFoods) Delete(context.Context, uuid.UUID) error                          { return nil }
func (fakeFoods) List(context.Context, catalog.FoodListFilter, int, int, string, string) ([]*catalog.Food, int, error) {
	return nil, 0, nil
}
func (fakeFoods) RecomputeCurrentStock(context.Context, uuid.UUID) error { return nil }
func (fakeFoods) ApplyReviewDelta(context.Context, uuid.UUID, float64, int) error  { return nil }
func (fakeFoods) ApplyFavoriteDelta(context.Context, uuid.UUID, int) error         { return nil }

type fakeLots struct{}

func (fakeLots) Create(context.Context, *lot.ProductionLot) error { return nil }
func (fakeLots) FindByID(context.Context, uuid.UUID) (*lot.ProductionLot, error) { return nil, nil }
func (fakeLots) ListBySeller(context.Context, uuid.UUID) ([]*lot.ProductionLot, error) {
	return nil, nil
}
func (fakeLots) CandidateLotsForUpdate(context.Context, uuid.UUID, uuid.UUID) ([]*lot.ProductionLot, error) {
	return nil, nil
}
func (fakeLots) DecrementAvailable(context.Context, uuid.UUID, int) error { return nil }
func (fakeLots) CreateAllocation(context.Context, *lot.OrderItemLotAllocation) error { return nil }
func (fakeLots) Recall(context.Context, uuid.UUID) error  { return nil }
func (fakeLots) Discard(context.Context, uuid.UUID) error { return nil }
func (fakeLots) Adjust(context.Context, uuid.UUID, int, lot.Status) error { return nil }

type fakeDisclosures struct{ bothPhases bool }

func (f *fakeDisclosures) Upsert(context.Context, *disclosure.Record) error { return nil }
func (f *fakeDisclosures) Find(context.Context, uuid.UUID, disclosure.Phase) (*disclosure.Record, error) {
	return nil, nil
}
func (f *fakeDisclosures) ExistsForBothPhases(context.Context, uuid.UUID) (bool, error) {
	return f.bothPhases, nil
}

type fakeDelivery struct{}

func (fakeDelivery) Create(context.Context, *delivery.Record) error { return nil }
func (fakeDelivery) FindByOrderIDForUpdate(context.Context, uuid.UUID) (*delivery.Record, error) {
	return nil, apperr.New(apperr.CodeDeliveryProofNotFound, "not found")
}
func (fakeDelivery) IncrementAttempts(context.Context, uuid.UUID) error { return nil }
func (fakeDelivery) Replace(context.Context, uuid.UUID, string, time.Time, time.Time) error {
	return nil
}
func (fakeDelivery) SetStatus(context.Context, uuid.UUID, delivery.Status) error { return nil }

type fakeFinance struct {
	active   *finance.CommissionSetting
	finances map[uuid.UUID]*finance.OrderFinance
}

func newFakeFinance() *fakeFinance {
	return &fakeFinance{finances: map[uuid.UUID]*finance.OrderFinance{}}
}
func (f *fakeFinance) CreateCommissionSetting(context.Context, *finance.CommissionSetting) error {
	return nil
}
func (f *fakeFinance) ActiveCommissionSetting(context.Context) (*finance.CommissionSetting, error) {
	return f.active, nil
}
func (f *fakeFinance) CreateOrderFinance(_ context.Context, of *finance.OrderFinance) error {
	f.finances[of.OrderID] = of
	return nil
}
func (f *fakeFinance) FindOrderFinanceByOrderID(_ context.Context, orderID uuid.UUID) (*finance.OrderFinance, error) {
	return f.finances[orderID], nil
}
func (f *fakeFinance) CreateAdjustment(context.Context, *finance.Adjustment) error { return nil }
func (f *fakeFinance) SellerSummary(context.Context, uuid.UUID) (*finance.SellerSummary, error) {
	return nil, nil
}
func (f *fakeFinance) CreateReport(context.Context, *finance.ReconciliationReport) error { return nil }

type fakeOutboxRepo struct{}

func (fakeOutboxRepo) Enqueue(context.Context, outbox.NewEvent) error { return nil }
func (fakeOutboxRepo) ClaimBatch(context.Context, int) ([]*outbox.Event, error) { return nil, nil }
func (fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error { return nil }
func (fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, time.Time, string) error {
	return nil
}
func (fakeOutboxRepo) MoveToDeadLetter(context.Context, uuid.UUID, string) error { return nil }

type fakePurger struct {
	purged map[string]int
	calls  []string
}

func newFakePurger() *fakePurger { return &fakePurger{purged: map[string]int{}} }
func (f *fakePurger) PurgeFamily(_ context.Context, entityType string, _ time.Time) (int, error) {
	f.calls = append(f.calls, entityType)
	return f.purged[entityType], nil
}

type fakeHolds struct {
	created  []*retention.LegalHold
	released []uuid.UUID
}

func (f *fakeHolds) Create(_ context.Context, h *retention.LegalHold) error {
	f.created = append(f.created, h)
	return nil
}
func (f *fakeHolds) Release(_ context.Context, id uuid.UUID) error {
	f.released = append(f.released, id)
	return nil
}
func (f *fakeHolds) IsHeld(context.Context, string, uuid.UUID) (bool, error) { return false, nil }

func newFixture() (*UseCase, *fakeOrders, *fakePurger, *fakeHolds) {
	log, _ := logging.New("error", true)
	orders := newFakeOrders()
	purger := newFakePurger()
	holds := &fakeHolds{}
	outboxSvc := &outboxsvc.UseCase{Repo: fakeOutboxRepo{}, MaxAttempts: 5, Log: log}
	fin := newFakeFinance()
	fin.active = &finance.CommissionSetting{Rate: "0.1000", Active: true}
	orderSvc := &ordersvc.UseCase{
		Conn:        fakeConn{},
		Orders:      orders,
		Foods:       fakeFoods{},
		Lots:        fakeLots{},
		Disclosures: &fakeDisclosures{bothPhases: true},
		Delivery:    fakeDelivery{},
		Finance:     fin,
		Outbox:      outboxSvc,
		Log:         log,
	}

	return &UseCase{
		Holds:             holds,
		Purge:             purger,
		Orders:            orders,
		OrderSvc:          orderSvc,
		Outbox:            outboxSvc,
		RetentionWindow:   730 * 24 * time.Hour,
		OrderExpiry:       30 * time.Minute,
		OrderAutoComplete: 24 * time.Hour,
		Log:               log,
	}, orders, purger, holds
}

func TestRunRetentionSweep_PurgesEveryFamily(t *testing.T) {
	uc, _, purger, _ := newFixture()
	err := uc.RunRetentionSweep(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, retainedFamilies, purger.calls)
}

func TestPlaceHoldAndReleaseHold(t *testing.T) {
	uc, _, _, holds := newFixture()
	entityID := uuid.New()

	err := uc.PlaceHold(context.Background(), "production_lot", entityID, "active recall investigation")
	require.NoError(t, err)
	require.Len(t, holds.created, 1)
	assert.Equal(t, entityID, holds.created[0].EntityID)

	err = uc.ReleaseHold(context.Background(), holds.created[0].ID)
	require.NoError(t, err)
	assert.Contains(t, holds.released, holds.created[0].ID)
}

func TestRunOrderSweep_ExpiresStalePendingOrders(t *testing.T) {
	uc, orders, _, _ := newFixture()
	stale := &order.Order{ID: uuid.New(), Status: order.StatusPendingSellerApproval}
	orders.byID[stale.ID] = stale
	orders.expiredPending = []*order.Order{stale}

	err := uc.RunOrderSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, order.StatusExpired, stale.Status)
}

func TestRunOrderSweep_AutoCompletesDeliveredPickupOrders(t *testing.T) {
	uc, orders, _, _ := newFixture()
	ready := &order.Order{ID: uuid.New(), Status: order.StatusDelivered, DeliveryType: order.DeliveryTypePickup, TotalPrice: "10.00"}
	orders.byID[ready.ID] = ready
	orders.deliveredOverdue = []*order.Order{ready}

	err := uc.RunOrderSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, ready.Status)
}

func TestRunOrderSweep_GateFailureIsLoggedNotFatal(t *testing.T) {
	uc, orders, _, _ := newFixture()
	notReady := &order.Order{ID: uuid.New(), Status: order.StatusDelivered, DeliveryType: order.DeliveryTypeDelivery, TotalPrice: "10.00"}
	orders.byID[notReady.ID] = notReady
	orders.deliveredOverdue = []*order.Order{notReady}

	err := uc.RunOrderSweep(context.Background())
	require.NoError(t, err, "a single order failing the completion gate must not fail the whole sweep")
	assert.Equal(t, order.StatusDelivered, notReady.Status)
}
