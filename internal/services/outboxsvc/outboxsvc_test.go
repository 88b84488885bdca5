package outboxsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/platform/logging"
)

type fakeOutboxRepo struct {
	enqueued    []outbox.NewEvent
	pending     []*outbox.Event
	processed   []uuid.UUID
	failed      map[uuid.UUID]string
	deadLetters map[uuid.UUID]string
}

func newFakeRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{failed: map[uuid.UUID]string{}, deadLetters: map[uuid.UUID]string{}}
}

func (f *fakeOutboxRepo) Enqueue(_ context.Context, e outbox.NewEvent) error {
	f.enqueued = append(f.enqueued, e)
	return nil
}
func (f *fakeOutboxRepo) ClaimBatch(_ context.Context, limit int) ([]*outbox.Event, error) {
	n := len(f.pending)
	if n > limit {
		n = limit
	}
	batch := f.pending[:n]
	f.pending = f.pending[n:]
	return batch, nil
}
func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	f.processed = append(f.processed, id)
	return nil
}
func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, _ time.Time, lastError string) error {
	f.failed[id] = lastError
	return nil
}
func (f *fakeOutboxRepo) MoveToDeadLetter(_ context.Context, id uuid.UUID, lastError string) error {
	f.deadLetters[id] = lastError
	return nil
}

func newTestUseCase(repo *fakeOutboxRepo, handlers map[string]Handler, maxAttempts int) *UseCase {
	log, _ := logging.New("error", true)
	return &UseCase{Repo: repo, Handlers: handlers, MaxAttempts: maxAttempts, Log: log}
}

func TestEnqueue_MarshalsPayload(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, 5)
	aggID := uuid.New()

	err := uc.Enqueue(context.Background(), "order_created", "order", aggID, map[string]any{"a": 1})
	require.NoError(t, err)
	require.Len(t, repo.enqueued, 1)
	assert.Equal(t, "order_created", repo.enqueued[0].EventType)
	assert.Equal(t, aggID, repo.enqueued[0].AggregateID)
	assert.JSONEq(t, `{"a":1}`, string(repo.enqueued[0].Payload))
}

func TestRunOnce_SuccessfulHandlerMarksProcessed(t *testing.T) {
	repo := newFakeRepo()
	e := &outbox.Event{ID: uuid.New(), EventType: "payment_confirmed"}
	repo.pending = []*outbox.Event{e}
	called := false
	uc := newTestUseCase(repo, map[string]Handler{
		"payment_confirmed": func(context.Context, *outbox.Event) error { called = true; return nil },
	}, 5)

	n, err := uc.RunOnce(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, called)
	assert.Equal(t, []uuid.UUID{e.ID}, repo.processed)
}

func TestRunOnce_MissingHandlerMarksFailed(t *testing.T) {
	repo := newFakeRepo()
	e := &outbox.Event{ID: uuid.New(), EventType: "unregistered_event"}
	repo.pending = []*outbox.Event{e}
	uc := newTestUseCase(repo, map[string]Handler{}, 5)

	n, err := uc.RunOnce(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, repo.failed[e.ID], "no handler registered")
}

func TestRunOnce_HandlerErrorBelowMaxAttemptsRetriesWithBackoff(t *testing.T) {
	repo := newFakeRepo()
	e := &outbox.Event{ID: uuid.New(), EventType: "lot_recalled", AttemptCount: 1}
	repo.pending = []*outbox.Event{e}
	uc := newTestUseCase(repo, map[string]Handler{
		"lot_recalled": func(context.Context, *outbox.Event) error { return errors.New("dispatch timeout") },
	}, 5)

	_, err := uc.RunOnce(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, repo.failed[e.ID], "dispatch timeout")
	assert.Empty(t, repo.deadLetters)
}

func TestRunOnce_HandlerErrorAtMaxAttemptsMovesToDeadLetter(t *testing.T) {
	repo := newFakeRepo()
	e := &outbox.Event{ID: uuid.New(), EventType: "lot_recalled", AttemptCount: 4}
	repo.pending = []*outbox.Event{e}
	uc := newTestUseCase(repo, map[string]Handler{
		"lot_recalled": func(context.Context, *outbox.Event) error { return errors.New("still failing") },
	}, 5)

	_, err := uc.RunOnce(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, repo.deadLetters[e.ID], "still failing")
	assert.NotContains(t, repo.failed, e.ID)
}

func TestBackoff_GrowsExponentiallyAndCaps(t *testing.T) {
	assert.Equal(t, 4*time.Second, backoff(1))
	assert.Equal(t, 8*time.Second, backoff(2))
	assert.Equal(t, 10*time.Minute, backoff(30))
}
