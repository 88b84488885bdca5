package idempotencysvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeStore struct {
	records map[string]Record
}

func newFakeStore() *fakeStore { return &fakeStore{records: map[string]Record{}} }

func (f *fakeStore) Get(_ context.Context, scope, keyHash string) (*Record, bool, error) {
	rec, ok := f.records[scope+":"+keyHash]
	if !ok {
		return nil, false, nil
	}
	return &rec, true, nil
}

func (f *fakeStore) Put(_ context.Context, scope, keyHash string, rec Record, _ time.Duration) error {
	f.records[scope+":"+keyHash] = rec
	return nil
}

func TestCheck_NoKeySkipsIdempotency(t *testing.T) {
	uc := &UseCase{Store: newFakeStore(), TTL: time.Hour}
	rec, err := uc.Check(context.Background(), "order_create", "", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCheck_NoCachedRecordReturnsNil(t *testing.T) {
	uc := &UseCase{Store: newFakeStore(), TTL: time.Hour}
	rec, err := uc.Check(context.Background(), "order_create", "key-1", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStoreThenCheck_ReplaysIdenticalBody(t *testing.T) {
	uc := &UseCase{Store: newFakeStore(), TTL: time.Hour}
	ctx := context.Background()
	body := []byte(`{"foodId":"abc","qty":1}`)

	require.NoError(t, uc.StoreResponse(ctx, "order_create", "key-1", body, []byte(`{"data":{"orderId":"o1"}}`), 201))

	rec, err := uc.Check(ctx, "order_create", "key-1", body)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 201, rec.StatusCode)
	assert.Equal(t, `{"data":{"orderId":"o1"}}`, string(rec.Body))
}

func TestCheck_DifferentBodyIsConflict(t *testing.T) {
	uc := &UseCase{Store: newFakeStore(), TTL: time.Hour}
	ctx := context.Background()

	require.NoError(t, uc.StoreResponse(ctx, "order_create", "key-1", []byte(`{"qty":1}`), []byte(`ok`), 201))

	_, err := uc.Check(ctx, "order_create", "key-1", []byte(`{"qty":2}`))
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeIdempotencyConflict, appErr.Code)
}

func TestStoreResponse_NoKeyIsNoop(t *testing.T) {
	store := newFakeStore()
	uc := &UseCase{Store: store, TTL: time.Hour}
	require.NoError(t, uc.StoreResponse(context.Background(), "order_create", "", []byte("x"), []byte("y"), 200))
	assert.Empty(t, store.records)
}
