// Package payment implements C9: payment sessions and the authoritative
// webhook confirmation flow. Grounded on the teacher's entity+repository
// split; signature verification lives in paymentsvc (pkg-level HMAC helper
// plus business rules) rather than here.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInitiated         Status = "initiated"
	StatusReturnedSuccess   Status = "returned_success"
	StatusReturnedFailed    Status = "returned_failed"
	StatusConfirmed         Status = "confirmed"
	StatusConfirmationFailed Status = "confirmation_failed"
)

// Attempt is one PaymentAttempt row (spec.md §3).
type Attempt struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	Provider          string
	ProviderSessionID string // unique
	ProviderReferenceID *string // unique, set on confirmation
	Status            Status
	SignatureValid    *bool
	CallbackPayload   map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Attempt) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Attempt, error)
	// FindBySessionIDForUpdate row-locks the attempt by provider_session_id,
	// required before applying webhook results (spec.md §4.7).
	FindBySessionIDForUpdate(ctx context.Context, sessionID string) (*Attempt, error)
	RecordReturn(ctx context.Context, id uuid.UUID, payload map[string]any) error
	ApplyWebhookResult(ctx context.Context, id uuid.UUID, status Status, signatureValid bool, referenceID *string, payload map[string]any) error
}
