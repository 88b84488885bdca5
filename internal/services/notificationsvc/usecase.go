// Package notificationsvc fans queued NotificationEvent rows out through
// the external agent/notification runtime. Grounded on outboxsvc's
// claim-dispatch-mark worker shape, simplified since a notification has no
// retry/dead-letter requirement of its own (a dropped push is re-sent on
// the next domain event, not redelivered by this worker).
package notificationsvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/notification"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/idgen"
)

type UseCase struct {
	Repo      notification.Repository
	Publisher notification.Publisher
	Log       logging.Logger
}

// Enqueue durably records a notification to be sent, called from within
// the producer's own transaction.
func (uc *UseCase) Enqueue(ctx context.Context, userID uuid.UUID, channel notification.Channel, template string, payload map[string]any) error {
	return uc.Repo.Create(ctx, &notification.Event{
		ID:        idgen.NewID(),
		UserID:    userID,
		Channel:   channel,
		Template:  template,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
}

// RunOnce publishes up to `batch` unsent events, marking each sent on
// success. A publish failure is logged and left for the next run rather
// than retried inline.
func (uc *UseCase) RunOnce(ctx context.Context, batch int) (int, error) {
	if uc.Publisher == nil {
		return 0, nil
	}

	events, err := uc.Repo.ListUnsent(ctx, batch)
	if err != nil {
		return 0, err
	}

	for _, e := range events {
		if err := uc.Publisher.Publish(ctx, *e); err != nil {
			uc.Log.Warnf("notificationsvc: publish failed for event %s: %v", e.ID, err)
			continue
		}
		if err := uc.Repo.MarkSent(ctx, e.ID, time.Now().UTC()); err != nil {
			uc.Log.Errorf("notificationsvc: failed to mark event %s sent: %v", e.ID, err)
		}
	}
	return len(events), nil
}
