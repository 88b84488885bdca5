// Package retention implements C16: LegalHold and the retention window
// consulted by the purge sweeper in internal/services/retentionsvc.
package retention

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LegalHold suppresses retention purges for a specific entity.
type LegalHold struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Reason     string
	CreatedAt  time.Time
	ReleasedAt *time.Time
}

type Repository interface {
	Create(ctx context.Context, h *LegalHold) error
	Release(ctx context.Context, id uuid.UUID) error
	// IsHeld reports whether an active (ReleasedAt nil) hold exists for the
	// entity, gating the sweeper per spec.md §4.12.
	IsHeld(ctx context.Context, entityType string, entityID uuid.UUID) (bool, error)
}
