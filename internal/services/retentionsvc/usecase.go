// Package retentionsvc implements C15/C16: the periodic sweeper that purges
// or anonymizes records past the retention window, honoring legal holds
// (spec.md §4.12), plus the order auto-expiry/auto-complete sweepers
// SPEC_FULL.md resolves as part of the same background worker pool
// (spec.md §5 "a pool of background workers runs the outbox, the
// retention purger, and order auto-expiry/auto-complete sweepers").
package retentionsvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/retention"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/idgen"
)

// Purger is implemented by internal/adapters/postgres: one purge/anonymize
// query per retained family (compliance, lot, payment, disclosure,
// dispute, auth-audit), filtered by `created_at < cutoff` and an absent
// LegalHold.
type Purger interface {
	// PurgeFamily deletes or anonymizes rows in entityType older than
	// cutoff that have no active LegalHold, returning the row count
	// affected.
	PurgeFamily(ctx context.Context, entityType string, cutoff time.Time) (int, error)
}

// retainedFamilies is the set of entity families spec.md §4.12 names.
var retainedFamilies = []string{
	"seller_compliance_profile",
	"production_lot",
	"payment_attempt",
	"allergen_disclosure_record",
	"payment_dispute_case",
	"session",
}

type UseCase struct {
	Holds               retention.Repository
	Purge               Purger
	Orders              order.Repository
	OrderSvc            *ordersvc.UseCase
	Outbox              *outboxsvc.UseCase
	RetentionWindow     time.Duration
	OrderExpiry         time.Duration
	OrderAutoComplete   time.Duration
	Log                 logging.Logger
}

// RunRetentionSweep purges every retained family older than the configured
// window, skipping rows under an active LegalHold (enforced by the
// Purger's own join against legal_hold, not re-checked here per row).
func (uc *UseCase) RunRetentionSweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-uc.RetentionWindow)
	for _, family := range retainedFamilies {
		n, err := uc.Purge.PurgeFamily(ctx, family, cutoff)
		if err != nil {
			uc.Log.Errorf("retentionsvc: purge of %s failed: %v", family, err)
			continue
		}
		if n > 0 {
			uc.Log.Infof("retentionsvc: purged %d rows from %s older than %s", n, family, cutoff)
		}
	}
	return nil
}

// PlaceHold creates a LegalHold suppressing retention purges for an entity.
func (uc *UseCase) PlaceHold(ctx context.Context, entityType string, entityID uuid.UUID, reason string) error {
	return uc.Holds.Create(ctx, &retention.LegalHold{
		ID:         idgen.NewID(),
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	})
}

// ReleaseHold lifts a previously placed hold.
func (uc *UseCase) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	return uc.Holds.Release(ctx, holdID)
}

// RunOrderSweep auto-expires stale pending orders and auto-completes
// delivered orders past the configured threshold (SPEC_FULL.md's Open
// Question resolution: 30 minutes / 24 hours by default, both actions
// recorded in OrderEvent with no actor).
func (uc *UseCase) RunOrderSweep(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := uc.Orders.ListExpiredPendingApproval(ctx, now.Add(-uc.OrderExpiry))
	if err != nil {
		return err
	}
	for _, o := range expired {
		if _, err := uc.OrderSvc.ExpireByID(ctx, o.ID); err != nil {
			uc.Log.Errorf("retentionsvc: auto-expire failed for order %s: %v", o.ID, err)
		}
	}

	ready, err := uc.Orders.ListDeliveredPastAutoComplete(ctx, now.Add(-uc.OrderAutoComplete))
	if err != nil {
		return err
	}
	for _, o := range ready {
		if _, err := uc.OrderSvc.Complete(ctx, o.ID, false, nil); err != nil {
			uc.Log.Warnf("retentionsvc: auto-complete gate not satisfied for order %s: %v", o.ID, err)
		}
	}

	return nil
}
