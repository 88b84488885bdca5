// Package notification defines NotificationEvent, the durable record of a
// notification dispatched to a user, and the Publisher interface the
// dispatch adapter (internal/adapters/dispatch) implements to fan outbox
// events out to the external agent/notification runtime.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type Event struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Channel   Channel
	Template  string
	Payload   map[string]any
	SentAt    *time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, e *Event) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	// ListUnsent supports the worker poll loop that fans queued events out
	// through Publisher.
	ListUnsent(ctx context.Context, batch int) ([]*Event, error)
}

// Publisher is the external collaborator boundary: voice/LiveKit, STT/TTS,
// LLM, and push/email/SMS providers all sit behind this interface, wired by
// internal/adapters/dispatch (see SPEC_FULL.md Non-goals).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
