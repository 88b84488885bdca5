package deliverysvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeConn struct{}

func (fakeConn) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeRecords struct {
	byOrderID map[uuid.UUID]*delivery.Record
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{byOrderID: map[uuid.UUID]*delivery.Record{}}
}

func (f *fakeRecords) Create(_ context.Context, r *delivery.Record) error {
	f.byOrderID[r.OrderID] = r
	return nil
}
func (f *fakeRecords) FindByOrderIDForUpdate(_ context.Context, orderID uuid.UUID) (*delivery.Record, error) {
	r, ok := f.byOrderID[orderID]
	if !ok {
		return nil, apperr.New(apperr.CodeDeliveryProofNotFound, "not found")
	}
	return r, nil
}
func (f *fakeRecords) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	for _, r := range f.byOrderID {
		if r.ID == id {
			r.VerificationAttempts++
		}
	}
	return nil
}
func (f *fakeRecords) Replace(_ context.Context, id uuid.UUID, pinHash string, sentAt, expiresAt time.Time) error {
	for _, r := range f.byOrderID {
		if r.ID == id {
			r.PinHash = pinHash
			r.SentAt = sentAt
			r.ExpiresAt = expiresAt
			r.VerificationAttempts = 0
		}
	}
	return nil
}
func (f *fakeRecords) SetStatus(_ context.Context, id uuid.UUID, status delivery.Status) error {
	for _, r := range f.byOrderID {
		if r.ID == id {
			r.Status = status
		}
	}
	return nil
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

func newTestUseCase() (*UseCase, *fakeRecords, *fakeOutboxRepo) {
	log, _ := logging.New("error", true)
	records := newFakeRecords()
	outboxRepo := &fakeOutboxRepo{}
	outboxSvc := &outboxsvc.UseCase{Repo: outboxRepo, MaxAttempts: 5, Log: log}
	return &UseCase{Conn: fakeConn{}, Records: records, Outbox: outboxSvc, Log: log}, records, outboxRepo
}

func TestIssuePIN_CreatesOnFirstCall(t *testing.T) {
	uc, records, _ := newTestUseCase()
	orderID := uuid.New()

	pin, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)
	assert.Len(t, pin, 6)

	rec := records.byOrderID[orderID]
	require.NotNil(t, rec)
	assert.Equal(t, delivery.StatusPending, rec.Status)
	assert.Equal(t, hashPin(pin), rec.PinHash)
}

func TestIssuePIN_RegenerateReplacesHash(t *testing.T) {
	uc, records, _ := newTestUseCase()
	orderID := uuid.New()

	first, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)
	id := records.byOrderID[orderID].ID

	second, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)

	rec := records.byOrderID[orderID]
	assert.Equal(t, id, rec.ID, "regenerate replaces the existing record, not a new row")
	assert.Equal(t, hashPin(second), rec.PinHash)
	assert.NotEqual(t, hashPin(first), rec.PinHash)
}

func TestVerify_CorrectPinSucceeds(t *testing.T) {
	uc, _, outboxRepo := newTestUseCase()
	orderID := uuid.New()
	pin, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)

	err = uc.Verify(context.Background(), orderID, pin)
	require.NoError(t, err)
	require.Len(t, outboxRepo.events, 1)
	assert.Equal(t, "delivery_pin_verified", outboxRepo.events[0].EventType)
}

func TestVerify_WrongPinIncrementsAttempts(t *testing.T) {
	uc, records, _ := newTestUseCase()
	orderID := uuid.New()
	_, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)

	err = uc.Verify(context.Background(), orderID, "000000")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodePinInvalid, appErr.Code)
	assert.Equal(t, 1, records.byOrderID[orderID].VerificationAttempts)
}

func TestVerify_MaxAttemptsFailsPermanently(t *testing.T) {
	uc, records, _ := newTestUseCase()
	orderID := uuid.New()
	_, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)

	for i := 0; i < delivery.MaxVerificationAttempts; i++ {
		_ = uc.Verify(context.Background(), orderID, "000000")
	}

	assert.Equal(t, delivery.StatusFailed, records.byOrderID[orderID].Status)

	err = uc.Verify(context.Background(), orderID, "000000")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodePinMaxAttempts, appErr.Code)
}

func TestVerify_ExpiredPinRejected(t *testing.T) {
	uc, records, _ := newTestUseCase()
	orderID := uuid.New()
	pin, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)
	records.byOrderID[orderID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	err = uc.Verify(context.Background(), orderID, pin)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodePinExpired, appErr.Code)
	assert.Equal(t, delivery.StatusExpired, records.byOrderID[orderID].Status)
}

func TestVerify_AlreadyVerifiedIsNoop(t *testing.T) {
	uc, _, outboxRepo := newTestUseCase()
	orderID := uuid.New()
	pin, err := uc.IssuePIN(context.Background(), orderID)
	require.NoError(t, err)
	require.NoError(t, uc.Verify(context.Background(), orderID, pin))

	require.NoError(t, uc.Verify(context.Background(), orderID, pin))
	assert.Len(t, outboxRepo.events, 1, "re-verifying an already-verified PIN must not enqueue again")
}

func TestVerify_NoRecordNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase()
	err := uc.Verify(context.Background(), uuid.New(), "123456")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeDeliveryProofNotFound, appErr.Code)
}
