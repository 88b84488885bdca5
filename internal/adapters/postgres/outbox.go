package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/pkg/idgen"
)

// OutboxRepository is the Postgres-backed outbox.Repository.
type OutboxRepository struct{ conn *Connection }

func NewOutboxRepository(conn *Connection) *OutboxRepository { return &OutboxRepository{conn: conn} }

func (r *OutboxRepository) Enqueue(ctx context.Context, e outbox.NewEvent) error {
	now := time.Now().UTC()
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO outbox_event (id, event_type, aggregate_type, aggregate_id, payload, status,
		                           attempt_count, next_attempt_at, last_error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,'pending',0,$6,'',$6,$6)`,
		idgen.NewID(), e.EventType, e.AggregateType, e.AggregateID, e.Payload, now)
	return err
}

// ClaimBatch selects pending rows due for dispatch and flips them to
// processing, using SKIP LOCKED so concurrent worker replicas partition the
// queue without blocking each other.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int) ([]*outbox.Event, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		UPDATE outbox_event SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM outbox_event
			WHERE status = 'pending' AND next_attempt_at <= now()
			ORDER BY next_attempt_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, aggregate_type, aggregate_id, payload, status,
		          attempt_count, next_attempt_at, last_error, created_at, updated_at`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*outbox.Event
	for rows.Next() {
		e := &outbox.Event{}
		if err := rows.Scan(&e.ID, &e.EventType, &e.AggregateType, &e.AggregateID, &e.Payload, &e.Status,
			&e.AttemptCount, &e.NextAttemptAt, &e.LastError, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE outbox_event SET status = 'processed', updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastError string) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE outbox_event SET status = 'pending', attempt_count = attempt_count + 1,
		       next_attempt_at = $2, last_error = $3, updated_at = now()
		WHERE id = $1`, id, nextAttemptAt, lastError)
	return err
}

func (r *OutboxRepository) MoveToDeadLetter(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.conn.WithTx(ctx, func(ctx context.Context) error {
		row := r.conn.Q(ctx).QueryRow(ctx,
			`SELECT event_type, aggregate_id, payload FROM outbox_event WHERE id = $1`, id)
		var eventType string
		var aggregateID uuid.UUID
		var payload []byte
		if err := row.Scan(&eventType, &aggregateID, &payload); err != nil {
			return err
		}

		if _, err := r.conn.Q(ctx).Exec(ctx, `
			INSERT INTO outbox_dead_letter (id, event_id, event_type, aggregate_id, payload, last_error, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,now())`,
			idgen.NewID(), id, eventType, aggregateID, payload, lastError); err != nil {
			return err
		}

		_, err := r.conn.Q(ctx).Exec(ctx,
			`UPDATE outbox_event SET status = 'failed', last_error = $2, updated_at = now() WHERE id = $1`,
			id, lastError)
		return err
	})
}
