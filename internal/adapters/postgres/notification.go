package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/notification"
)

// NotificationRepository is the Postgres-backed notification.Repository.
type NotificationRepository struct{ conn *Connection }

func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

func (r *NotificationRepository) Create(ctx context.Context, e *notification.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO notification_event (id, user_id, channel, template, payload, sent_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.UserID, e.Channel, e.Template, payload, e.SentAt, e.CreatedAt)
	return err
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `UPDATE notification_event SET sent_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *NotificationRepository) ListUnsent(ctx context.Context, batch int) ([]*notification.Event, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, user_id, channel, template, payload, sent_at, created_at
		FROM notification_event
		WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1`, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*notification.Event
	for rows.Next() {
		e := &notification.Event{}
		var payload []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Channel, &e.Template, &payload, &e.SentAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
