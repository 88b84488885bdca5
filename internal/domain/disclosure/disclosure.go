// Package disclosure implements the AllergenDisclosureRecord half of C11:
// unique per (order, phase), upsert overwrites the latest attempt.
package disclosure

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhasePreOrder Phase = "pre_order"
	PhaseHandover Phase = "handover"
)

type Record struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	Phase              Phase
	Allergens          []string
	ConfirmationMethod string
	RecordedBy         uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Repository interface {
	// Upsert overwrites any existing (order, phase) record (spec.md §4.10).
	Upsert(ctx context.Context, r *Record) error
	Find(ctx context.Context, orderID uuid.UUID, phase Phase) (*Record, error)
	ExistsForBothPhases(ctx context.Context, orderID uuid.UUID) (bool, error)
}
