// Package outbox implements C7: the at-least-once transactional outbox.
// Grounded on the teacher's adapters/rabbitmq producer interface shape
// (ProducerRepository in services/command.UseCase) combined with the
// classic outbox-table pattern the other example repos in the pack use for
// "write inside the domain transaction, dispatch later."
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

// Event is a single outbox row, enqueued in the same transaction as the
// domain write that produced it.
type Event struct {
	ID            uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       []byte // JSON
	Status        Status
	AttemptCount  int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeadLetter receives rows that exhausted their retry budget.
type DeadLetter struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	EventType   string
	AggregateID uuid.UUID
	Payload     []byte
	LastError   string
	CreatedAt   time.Time
}

// NewEvent is the producer-facing input to enqueue (spec.md §4.5).
type NewEvent struct {
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       []byte
}

type Repository interface {
	// Enqueue must be called with a ctx carrying the ambient transaction
	// (internal/adapters/postgres.Connection.WithTx) so the insert commits
	// atomically with the domain write that produced it.
	Enqueue(ctx context.Context, e NewEvent) error
	// ClaimBatch selects pending rows with next_attempt_at<=now and marks
	// them processing, using SELECT ... FOR UPDATE SKIP LOCKED so multiple
	// worker replicas never double-claim a row.
	ClaimBatch(ctx context.Context, limit int) ([]*Event, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastError string) error
	MoveToDeadLetter(ctx context.Context, id uuid.UUID, lastError string) error
}
