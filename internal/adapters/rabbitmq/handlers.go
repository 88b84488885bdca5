package rabbitmq

import (
	"context"

	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
)

// Exchange is the single topic exchange every outbox event publishes to;
// routing keys are the event type prefixed with "coziyoo." (e.g.
// "coziyoo.order_paid", "coziyoo.payment_confirmed"), letting consumers
// bind on a prefix.
const Exchange = "coziyoo.events"

// Handlers builds the outboxsvc.Handler map for every event type
// SPEC_FULL.md names, each publishing the event's JSON payload unchanged
// under a routing key derived from its event type.
func (p *Producer) Handlers() map[string]outboxsvc.Handler {
	eventTypes := []string{
		"order_created",
		"order_seller_approved",
		"order_rejected",
		"order_expired",
		"order_cancelled",
		"payment_session_started",
		"payment_confirmed",
		"order_paid",
		"order_preparing",
		"order_ready",
		"order_in_delivery",
		"order_delivered",
		"delivery_pin_verified",
		"order_completed",
		"refund_requested",
		"dispute_opened",
		"dispute_resolved",
		"compliance_status_changed",
		"lot_recalled",
	}

	handlers := make(map[string]outboxsvc.Handler, len(eventTypes))
	for _, t := range eventTypes {
		handlers[t] = p.publishHandler(t)
	}
	return handlers
}

func (p *Producer) publishHandler(eventType string) outboxsvc.Handler {
	return func(ctx context.Context, e *outbox.Event) error {
		return p.Publish(ctx, Exchange, routingKeyFor(eventType), e.Payload)
	}
}

func routingKeyFor(eventType string) string {
	return "coziyoo." + eventType
}
