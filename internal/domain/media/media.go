// Package media defines the MediaAsset record and the storage interface an
// external object-store adapter implements. Byte storage itself is an
// external collaborator outside this module's scope (see SPEC_FULL.md
// Non-goals) — this package exposes only the metadata row and the interface
// a real adapter would satisfy.
package media

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Asset struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	URL         string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
}

// Store is implemented by an external object-storage adapter (not part of
// this module — see SPEC_FULL.md Non-goals).
type Store interface {
	PutURL(ctx context.Context, key string) (uploadURL string, err error)
}
