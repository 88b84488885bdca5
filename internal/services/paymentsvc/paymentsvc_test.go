package paymentsvc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/domain/payment"
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
	o, ok := f.byID[id]
	if !ok {
		return apperr.New(apperr.CodeOrderNotFound, "not found")
	}
	o.Status = status
	if paymentCompleted != nil {
		o.PaymentCompleted = *paymentCompleted
	}
	return nil
}
func (f *fakeOrders) AppendEvent(context.Context, *order.Event) error           { return nil }
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

type fakePayments struct {
	bySession map[string]*payment.Attempt
	byOrder   map[uuid.UUID]*payment.Attempt
	created   []*payment.Attempt
	returns   map[uuid.UUID]map[string]any
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		bySession: map[string]*payment.Attempt{},
		byOrder:   map[uuid.UUID]*payment.Attempt{},
		returns:   map[uuid.UUID]map[string]any{},
	}
}
func (f *fakePayments) Create(_ context.Context, a *payment.Attempt) error {
	f.created = append(f.created, a)
	f.bySession[a.ProviderSessionID] = a
	f.byOrder[a.OrderID] = a
	return nil
}
func (f *fakePayments) FindByOrderID(_ context.Context, orderID uuid.UUID) (*payment.Attempt, error) {
	a, ok := f.byOrder[orderID]
	if !ok {
		return nil, apperr.New(apperr.CodePaymentAttemptNotFound, "not found")
	}
	return a, nil
}
func (f *fakePayments) FindBySessionIDForUpdate(_ context.Context, sessionID string) (*payment.Attempt, error) {
	a, ok := f.bySession[sessionID]
	if !ok {
		return nil, apperr.New(apperr.CodePaymentAttemptNotFound, "not found")
	}
	return a, nil
}
func (f *fakePayments) RecordReturn(_ context.Context, id uuid.UUID, payload map[string]any) error {
	f.returns[id] = payload
	return nil
}
func (f *fakePayments) ApplyWebhookResult(_ context.Context, id uuid.UUID, status payment.Status, signatureValid bool, referenceID *string, _ map[string]any) error {
	for _, a := range f.bySession {
		if a.ID == id {
			a.Status = status
			a.SignatureValid = &signatureValid
			a.ProviderReferenceID = referenceID
			return nil
		}
	}
	return apperr.New(apperr.CodePaymentAttemptNotFound, "not found")
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

const testSecret = "test-webhook-shared-secret-value"

func newFixture() (*UseCase, *fakeOrders, *fakePayments) {
	log, _ := logging.New("error", true)
	orders := newFakeOrders()
	payments := newFakePayments()
	outboxRepo := &fakeOutboxRepo{}
	outboxSvc := &outboxsvc.UseCase{Repo: outboxRepo, MaxAttempts: 5, Log: log}

	orderSvc := &ordersvc.UseCase{
		Conn:   fakeConn{},
		Orders: orders,
		Foods:  fakeFoods{},
		Lots:   fakeLots{},
		Outbox: outboxSvc,
		Log:    log,
	}

	uc := &UseCase{
		Conn:     fakeConn{},
		Orders:   orders,
		Payments: payments,
		OrderSvc: orderSvc,
		Outbox:   outboxSvc,
		Secret:   []byte(testSecret),
		Log:      log,
	}
	return uc, orders, payments
}

func TestStart_TransitionsSellerApprovedToAwaitingPayment(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusSellerApproved}
	orders.byID[o.ID] = o

	result, err := uc.Start(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingPayment, result.Order.Status)
	require.Len(t, payments.created, 1)
	assert.Equal(t, payment.StatusInitiated, result.Attempt.Status)
	assert.Contains(t, result.CheckoutURL, result.Attempt.ProviderSessionID)
}

func TestStart_IdempotentWhenAlreadyAwaitingPayment(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	existing := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-1", Status: payment.StatusInitiated}
	payments.byOrder[o.ID] = existing
	payments.bySession["sess-1"] = existing

	result, err := uc.Start(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", result.Attempt.ProviderSessionID)
	assert.Empty(t, payments.created, "must not create a second attempt")
}

func TestStart_WrongStateRejected(t *testing.T) {
	uc, orders, _ := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusDraft}
	orders.byID[o.ID] = o

	_, err := uc.Start(context.Background(), o.ID)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOrderInvalidState, appErr.Code)
}

func signedWebhook(orderID uuid.UUID, sessionID, refID, result string) (WebhookInput, []byte) {
	body := []byte(`{"sessionId":"` + sessionID + `","providerReferenceId":"` + refID + `","result":"` + result + `"}`)
	sig := hexHMAC([]byte(testSecret), body)
	return WebhookInput{SessionID: sessionID, ProviderReferenceID: refID, Result: result, RawBody: body, SignatureHex: sig}, body
}

func hexHMAC(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_ValidConfirmedMarksOrderPaid(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-2", Status: payment.StatusInitiated}
	payments.bySession["sess-2"] = attempt

	in, _ := signedWebhook(o.ID, "sess-2", "ref-1", "confirmed")
	outcome, err := uc.Webhook(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.True(t, outcome.Paid)
	assert.False(t, outcome.Idempotent)
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.True(t, o.PaymentCompleted)
	assert.Equal(t, payment.StatusConfirmed, attempt.Status)
}

func TestWebhook_ReplayIsIdempotent(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-3", Status: payment.StatusInitiated}
	payments.bySession["sess-3"] = attempt

	in, _ := signedWebhook(o.ID, "sess-3", "ref-2", "confirmed")
	_, err := uc.Webhook(context.Background(), in)
	require.NoError(t, err)

	outcome, err := uc.Webhook(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, outcome.Idempotent)
	assert.True(t, outcome.Paid)
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-4", Status: payment.StatusInitiated}
	payments.bySession["sess-4"] = attempt

	in, _ := signedWebhook(o.ID, "sess-4", "ref-3", "confirmed")
	in.SignatureHex = "00000000000000000000000000000000000000000000000000000000000000"

	_, err := uc.Webhook(context.Background(), in)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeWebhookSignatureInvalid, appErr.Code)
	assert.Equal(t, order.StatusAwaitingPayment, o.Status, "order status must be unchanged")
	assert.NotNil(t, attempt.SignatureValid)
	assert.False(t, *attempt.SignatureValid)
}

func TestWebhook_FailedResultMarksConfirmationFailed(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-5", Status: payment.StatusInitiated}
	payments.bySession["sess-5"] = attempt

	in, _ := signedWebhook(o.ID, "sess-5", "ref-4", "failed")
	outcome, err := uc.Webhook(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, outcome.Paid)
	assert.Equal(t, payment.StatusConfirmationFailed, attempt.Status)
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
}

func TestWebhook_OrderLeftAwaitingPaymentConflict(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusCancelled}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-6", Status: payment.StatusInitiated}
	payments.bySession["sess-6"] = attempt

	in, _ := signedWebhook(o.ID, "sess-6", "ref-5", "confirmed")
	_, err := uc.Webhook(context.Background(), in)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodePaymentSessionConflict, appErr.Code)
	assert.Equal(t, payment.StatusConfirmationFailed, attempt.Status)
}

func TestWebhook_UnknownSessionNotFound(t *testing.T) {
	uc, _, _ := newFixture()
	in, _ := signedWebhook(uuid.New(), "unknown-session", "ref", "confirmed")
	_, err := uc.Webhook(context.Background(), in)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodePaymentAttemptNotFound, appErr.Code)
}

func TestReturn_RecordsCallbackWithoutChangingOrderStatus(t *testing.T) {
	uc, orders, payments := newFixture()
	o := &order.Order{ID: uuid.New(), Status: order.StatusAwaitingPayment}
	orders.byID[o.ID] = o
	attempt := &payment.Attempt{ID: uuid.New(), OrderID: o.ID, ProviderSessionID: "sess-7"}
	payments.bySession["sess-7"] = attempt

	err := uc.Return(context.Background(), "sess-7", map[string]any{"status": "success"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
	require.Contains(t, payments.returns, attempt.ID)
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	secret := []byte(testSecret)
	body := []byte(`{"a":1}`)
	sig := hexHMAC(secret, body)
	assert.True(t, VerifySignature(secret, body, sig))
	assert.False(t, VerifySignature(secret, body, "deadbeef"))
}
