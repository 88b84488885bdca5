// Package outboxsvc implements C7: the producer-facing Enqueue call used by
// every domain service inside its own transaction, and the worker loop that
// claims, dispatches, and retires outbox rows. Grounded on the teacher's
// adapters/rabbitmq.ProducerRepository aggregation inside
// services/command.UseCase, generalized from "always publish to RabbitMQ
// inline" to the durable outbox-table handoff spec.md §4.5 requires.
package outboxsvc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/platform/logging"
)

// Handler processes one claimed event. Handlers must be idempotent; events
// carry AggregateID for handler-side dedup (spec.md §4.5).
type Handler func(ctx context.Context, e *outbox.Event) error

// UseCase is the outbox producer + worker.
type UseCase struct {
	Repo        outbox.Repository
	Handlers    map[string]Handler
	MaxAttempts int
	Log         logging.Logger
}

// Enqueue writes a pending row for an event type, to be called with a ctx
// carrying the producer's own transaction so the insert commits atomically
// with the domain write (spec.md §4.5 `enqueue(tx, {...})`).
func (uc *UseCase) Enqueue(ctx context.Context, eventType, aggregateType string, aggregateID uuid.UUID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return uc.Repo.Enqueue(ctx, outbox.NewEvent{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       body,
	})
}

// backoff computes exponential backoff with a 2s base, capped at 10 minutes.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * 2 * time.Second
	max := 10 * time.Minute
	if d > max || d <= 0 {
		return max
	}
	return d
}

// RunOnce claims and dispatches up to `batch` pending rows, returning the
// number processed. Intended to be called on a poll loop by cmd/worker.
func (uc *UseCase) RunOnce(ctx context.Context, batch int) (int, error) {
	events, err := uc.Repo.ClaimBatch(ctx, batch)
	if err != nil {
		return 0, err
	}

	for _, e := range events {
		uc.dispatch(ctx, e)
	}
	return len(events), nil
}

func (uc *UseCase) dispatch(ctx context.Context, e *outbox.Event) {
	handler, ok := uc.Handlers[e.EventType]
	if !ok {
		uc.Log.Warnf("outbox: no handler registered for event type %s (event %s)", e.EventType, e.ID)
		_ = uc.Repo.MarkFailed(ctx, e.ID, time.Now().UTC().Add(backoff(e.AttemptCount)), "no handler registered")
		return
	}

	if err := handler(ctx, e); err != nil {
		attempt := e.AttemptCount + 1
		uc.Log.Errorf("outbox: handler for %s failed (attempt %d): %v", e.EventType, attempt, err)

		if attempt >= uc.MaxAttempts {
			if dlErr := uc.Repo.MoveToDeadLetter(ctx, e.ID, err.Error()); dlErr != nil {
				uc.Log.Errorf("outbox: failed to move event %s to dead letter: %v", e.ID, dlErr)
			}
			return
		}

		if err := uc.Repo.MarkFailed(ctx, e.ID, time.Now().UTC().Add(backoff(attempt)), err.Error()); err != nil {
			uc.Log.Errorf("outbox: failed to mark event %s failed: %v", e.ID, err)
		}
		return
	}

	if err := uc.Repo.MarkProcessed(ctx, e.ID); err != nil {
		uc.Log.Errorf("outbox: failed to mark event %s processed: %v", e.ID, err)
	}
}
