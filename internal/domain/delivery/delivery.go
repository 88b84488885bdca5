// Package delivery implements the DeliveryProofRecord half of C11: PIN
// issuance, hashed storage, and timing-safe verification.
package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
	StatusExpired  Status = "expired"
)

// Record is one per delivery-type order. PinHash is sha256(pin); the plain
// PIN is never stored.
type Record struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	PinHash             string
	SentAt              time.Time
	ExpiresAt           time.Time
	VerificationAttempts int
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const (
	MaxVerificationAttempts = 5
	PinTTL                  = 10 * time.Minute
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	FindByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*Record, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	// Replace swaps in a new PIN hash/expiry for a regenerate, per spec.md
	// §4.10 ("regenerate creates a new record replacing the previous hash").
	Replace(ctx context.Context, id uuid.UUID, pinHash string, sentAt, expiresAt time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
}
