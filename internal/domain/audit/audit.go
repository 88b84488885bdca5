// Package audit implements C15: the immutable AdminAuditLog written in the
// same transaction as every admin mutation, plus the append-only mirror
// interface the Mongo adapter implements (grounded on the teacher's
// adapters/mongodb/audit Merkle-audit-tree mirror, simplified to a plain
// append-only collection since chained hashing is outside this spec's
// scope).
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Log is an AdminAuditLog row: immutable, captures before/after JSON.
type Log struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Before     map[string]any
	After      map[string]any
	CreatedAt  time.Time
}

type Repository interface {
	// Append must be called with the ambient transaction context so the
	// audit row commits atomically with the admin mutation it describes.
	Append(ctx context.Context, l *Log) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Log, error)
}

// Mirror is the secondary, append-only audit sink (internal/adapters/mongoaudit).
// It is best-effort: a Mirror failure never blocks the Postgres transaction
// that owns the audit fact.
type Mirror interface {
	Append(ctx context.Context, l *Log) error
}
