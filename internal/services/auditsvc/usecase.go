// Package auditsvc implements C16: the read surface over AdminAuditLog for
// the admin panel, plus a best-effort mirror write to the secondary
// (Mongo) audit sink. The authoritative write path is audit.Repository.Append
// called directly from inside each domain service's own transaction (see
// compliancesvc.Review, disputesvc.Resolve) — this package never writes the
// Postgres row itself, only mirrors it and serves lookups.
package auditsvc

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/platform/logging"
)

type UseCase struct {
	Repo   audit.Repository
	Mirror audit.Mirror
	Log    logging.Logger
}

// Mirrored writes the just-committed audit row to the secondary sink. It
// is called after the owning transaction commits, not inside it — a Mirror
// failure must never roll back the fact being audited.
func (uc *UseCase) Mirrored(ctx context.Context, l *audit.Log) {
	if uc.Mirror == nil {
		return
	}
	if err := uc.Mirror.Append(ctx, l); err != nil {
		uc.Log.Warnf("auditsvc: mirror write failed for %s/%s: %v", l.EntityType, l.EntityID, err)
	}
}

// ListByEntity returns the audit trail for one entity.
func (uc *UseCase) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*audit.Log, error) {
	return uc.Repo.ListByEntity(ctx, entityType, entityID)
}
