package disputesvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/domain/dispute"
	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
)

// fakeConn joins the caller's ctx unchanged, matching postgres.Connection's
// WithTx when no real pool is available.
type fakeConn struct{}

func (fakeConn) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeOrders struct {
	byID map[uuid.UUID]*order.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[uuid.UUID]*order.Order{}} }

func (f *fakeOrders) Create(context.Context, *order.Order, []*order.Item) error { return nil }
func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.CodeOrderNotFound, "not found")
	}
	return o, nil
}
func (f *fakeOrders) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return f.FindByID(ctx, id)
}
func (f *fakeOrders) Items(context.Context, uuid.UUID) ([]*order.Item, error) { return nil, nil }
func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, paymentCompleted *bool) error {
	if o, ok := f.byID[id]; ok {
		o.Status = status
	}
	return nil
}
func (f *fakeOrders) AppendEvent(context.Context, *order.Event) error { return nil }
func (f *fakeOrders) Events(context.Context, uuid.UUID) ([]*order.Event, error) { return nil, nil }
func (f *fakeOrders) ListExpiredPendingApproval(context.Context, time.Time) ([]*order.Order, error) {
	return nil, nil
}
func (f *fakeOrders) ListDeliveredPastAutoComplete(context.Context, time.Time) ([]*order.Order, error) {
	return nil, nil
}
func (f *fakeOrders) ListByBuyer(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}
func (f *fakeOrders) ListBySeller(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}

type fakeDisputes struct {
	byID      map[uuid.UUID]*dispute.Case
	byOrderID map[uuid.UUID]*dispute.Case
}

func newFakeDisputes() *fakeDisputes {
	return &fakeDisputes{byID: map[uuid.UUID]*dispute.Case{}, byOrderID: map[uuid.UUID]*dispute.Case{}}
}
func (f *fakeDisputes) Create(_ context.Context, c *dispute.Case) error {
	f.byID[c.ID] = c
	if c.Status == dispute.StatusOpened {
		f.byOrderID[c.OrderID] = c
	}
	return nil
}
func (f *fakeDisputes) FindByID(_ context.Context, id uuid.UUID) (*dispute.Case, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.CodeDisputeNotFound, "not found")
	}
	return c, nil
}
func (f *fakeDisputes) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*dispute.Case, error) {
	return f.FindByID(ctx, id)
}
func (f *fakeDisputes) FindOpenByOrderID(_ context.Context, orderID uuid.UUID) (*dispute.Case, error) {
	c, ok := f.byOrderID[orderID]
	if !ok {
		return nil, apperr.New(apperr.CodeDisputeNotFound, "not found")
	}
	return c, nil
}
func (f *fakeDisputes) Resolve(_ context.Context, id uuid.UUID, status dispute.Status, liability dispute.LiabilityParty, ratio float64) error {
	c, ok := f.byID[id]
	if !ok {
		return apperr.New(apperr.CodeDisputeNotFound, "not found")
	}
	c.Status = status
	c.LiabilityParty = liability
	c.LiabilityRatio = ratio
	delete(f.byOrderID, c.OrderID)
	return nil
}

type fakeFinance struct {
	adjustments []*finance.Adjustment
}

func (f *fakeFinance) CreateCommissionSetting(context.Context, *finance.CommissionSetting) error {
	return nil
}
func (f *fakeFinance) ActiveCommissionSetting(context.Context) (*finance.CommissionSetting, error) {
	return nil, nil
}
func (f *fakeFinance) CreateOrderFinance(context.Context, *finance.OrderFinance) error { return nil }
func (f *fakeFinance) FindOrderFinanceByOrderID(context.Context, uuid.UUID) (*finance.OrderFinance, error) {
	return nil, nil
}
func (f *fakeFinance) CreateAdjustment(_ context.Context, a *finance.Adjustment) error {
	f.adjustments = append(f.adjustments, a)
	return nil
}
func (f *fakeFinance) SellerSummary(context.Context, uuid.UUID) (*finance.SellerSummary, error) {
	return nil, nil
}
func (f *fakeFinance) CreateReport(context.Context, *finance.ReconciliationReport) error { return nil }

type fakeAudit struct{ logs []*audit.Log }

func (f *fakeAudit) Append(_ context.Context, l *audit.Log) error {
	f.logs = append(f.logs, l)
	return nil
}
func (f *fakeAudit) ListByEntity(context.Context, string, uuid.UUID) ([]*audit.Log, error) {
	return nil, nil
}

type fakeOutboxRepo struct{ events []outbox.NewEvent }

func (f *fakeOutboxRepo) Enqueue(_ context.Context, e outbox.NewEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutboxRepo) ClaimBatch(context.Context, int) ([]*outbox.Event, error) { return nil, nil }
func (f *fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error           { return nil }
func (f *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, time.Time, string) error {
	return nil
}
func (f *fakeOutboxRepo) MoveToDeadLetter(context.Context, uuid.UUID, string) error { return nil }

func newTestUseCase() (*UseCase, *fakeOrders, *fakeDisputes, *fakeFinance, *fakeAudit) {
	log, _ := logging.New("error", true)
	orders := newFakeOrders()
	disputes := newFakeDisputes()
	fin := &fakeFinance{}
	aud := &fakeAudit{}
	outboxSvc := &outboxsvc.UseCase{Repo: &fakeOutboxRepo{}, MaxAttempts: 5, Log: log}
	return &UseCase{
		Conn:     fakeConn{},
		Orders:   orders,
		Disputes: disputes,
		Finance:  fin,
		Audit:    aud,
		Outbox:   outboxSvc,
		Log:      log,
	}, orders, disputes, fin, aud
}

func TestRequestRefund_CreatesCaseAndNegativeAdjustment(t *testing.T) {
	uc, orders, _, fin, _ := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: order.StatusPaid, TotalPrice: "25.00"}
	orders.byID[o.ID] = o

	c, err := uc.RequestRefund(context.Background(), o.ID, buyerID, "item_missing")
	require.NoError(t, err)
	assert.Equal(t, dispute.StatusOpened, c.Status)
	assert.Equal(t, dispute.LiabilityPlatform, c.LiabilityParty)

	require.Len(t, fin.adjustments, 1)
	assert.Equal(t, "-25.00", fin.adjustments[0].Amount)
	assert.Equal(t, finance.AdjustmentReasonRefund, fin.adjustments[0].Reason)
}

func TestRequestRefund_WrongBuyerForbidden(t *testing.T) {
	uc, orders, _, _, _ := newTestUseCase()
	o := &order.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: uuid.New(), Status: order.StatusPaid, TotalPrice: "10.00"}
	orders.byID[o.ID] = o

	_, err := uc.RequestRefund(context.Background(), o.ID, uuid.New(), "reason")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForbiddenOrderScope, appErr.Code)
}

func TestRequestRefund_InvalidStateRejected(t *testing.T) {
	uc, orders, _, _, _ := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: order.StatusDraft, TotalPrice: "10.00"}
	orders.byID[o.ID] = o

	_, err := uc.RequestRefund(context.Background(), o.ID, buyerID, "reason")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOrderInvalidState, appErr.Code)
}

func TestRequestRefund_IdempotentOnExistingOpenCase(t *testing.T) {
	uc, orders, _, fin, _ := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: order.StatusPaid, TotalPrice: "10.00"}
	orders.byID[o.ID] = o

	first, err := uc.RequestRefund(context.Background(), o.ID, buyerID, "reason")
	require.NoError(t, err)

	second, err := uc.RequestRefund(context.Background(), o.ID, buyerID, "reason")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fin.adjustments, 1, "a second request must not post a second adjustment")
}

func TestResolve_LostSellerLiabilityPostsFullNegativeAdjustment(t *testing.T) {
	uc, orders, disputes, fin, aud := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, SellerID: uuid.New(), Status: order.StatusRefundPending, TotalPrice: "40.00"}
	orders.byID[o.ID] = o

	c := &dispute.Case{ID: uuid.New(), OrderID: o.ID, Status: dispute.StatusOpened}
	disputes.byID[c.ID] = c

	adminID := uuid.New()
	result, err := uc.Resolve(context.Background(), c.ID, adminID, dispute.StatusLost, dispute.LiabilitySeller, 0)
	require.NoError(t, err)
	assert.Equal(t, dispute.StatusLost, result.Status)

	require.Len(t, fin.adjustments, 1)
	assert.Equal(t, "-40.00", fin.adjustments[0].Amount)
	assert.Equal(t, finance.AdjustmentReasonDispute, fin.adjustments[0].Reason)
	require.Len(t, aud.logs, 1)
	assert.Equal(t, adminID, aud.logs[0].ActorID)
}

func TestResolve_SharedLiabilityAppliesRatio(t *testing.T) {
	uc, orders, disputes, fin, _ := newTestUseCase()
	o := &order.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: uuid.New(), Status: order.StatusRefundPending, TotalPrice: "100.00"}
	orders.byID[o.ID] = o

	c := &dispute.Case{ID: uuid.New(), OrderID: o.ID, Status: dispute.StatusUnderReview}
	disputes.byID[c.ID] = c

	_, err := uc.Resolve(context.Background(), c.ID, uuid.New(), dispute.StatusLost, dispute.LiabilityShared, 0.3)
	require.NoError(t, err)

	require.Len(t, fin.adjustments, 1)
	assert.Equal(t, "-30.00", fin.adjustments[0].Amount)
}

func TestResolve_WonPostsNoAdjustment(t *testing.T) {
	uc, orders, disputes, fin, _ := newTestUseCase()
	o := &order.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: uuid.New(), Status: order.StatusRefundPending, TotalPrice: "15.00"}
	orders.byID[o.ID] = o

	c := &dispute.Case{ID: uuid.New(), OrderID: o.ID, Status: dispute.StatusOpened}
	disputes.byID[c.ID] = c

	_, err := uc.Resolve(context.Background(), c.ID, uuid.New(), dispute.StatusWon, dispute.LiabilityPlatform, 0)
	require.NoError(t, err)
	assert.Empty(t, fin.adjustments)
}

func TestResolve_AlreadyResolvedRejected(t *testing.T) {
	uc, _, disputes, _, _ := newTestUseCase()
	c := &dispute.Case{ID: uuid.New(), OrderID: uuid.New(), Status: dispute.StatusClosed}
	disputes.byID[c.ID] = c

	_, err := uc.Resolve(context.Background(), c.ID, uuid.New(), dispute.StatusLost, dispute.LiabilitySeller, 0)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOrderInvalidState, appErr.Code)
}

func TestSellerRatioFor(t *testing.T) {
	assert.Equal(t, "1", sellerRatioFor(dispute.LiabilitySeller, 0.4).String())
	assert.Equal(t, "0", sellerRatioFor(dispute.LiabilityPlatform, 0.4).String())
	assert.Equal(t, "0", sellerRatioFor(dispute.LiabilityProvider, 0.4).String())
	assert.Equal(t, "0.4", sellerRatioFor(dispute.LiabilityShared, 0.4).String())
}
