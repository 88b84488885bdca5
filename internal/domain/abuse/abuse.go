// Package abuse implements C6: sliding-window rate limiting decisions and
// the append-only AbuseRiskEvent log. The sliding-window counters themselves
// live in Redis (internal/adapters/redisstore); this package holds the
// durable decision log and the flow/key vocabulary.
package abuse

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Flow string

const (
	FlowSignup        Flow = "signup"
	FlowLogin         Flow = "login"
	FlowDisplayName   Flow = "display_name_check"
	FlowOrderCreate   Flow = "order_create"
	FlowPaymentStart  Flow = "payment_start"
	FlowRefundRequest Flow = "refund_request"
	FlowPinVerify     Flow = "pin_verify"
)

type Decision string

const (
	DecisionAllowed Decision = "allowed"
	DecisionDenied  Decision = "denied"
)

// RiskEvent is the append-only log spec.md §4.4 requires on limit breach.
type RiskEvent struct {
	ID        uuid.UUID
	Flow      Flow
	IP        string
	SubjectID *uuid.UUID
	Decision  Decision
	CreatedAt time.Time
}

type Repository interface {
	AppendRiskEvent(ctx context.Context, e *RiskEvent) error
}
