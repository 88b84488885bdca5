// Package compliancesvc implements C10: the seller compliance profile
// lifecycle, document/check submission, and admin review. Grounded on the
// teacher's services/command.UseCase aggregator pattern; the
// submit-atomicity rule (submitted -> under_review inside one transaction)
// is written from spec.md §4.8 directly since the teacher's onboarding
// domain has no analogous two-step status flip.
package compliancesvc

import (
	"context"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
)

// transactor is satisfied by *postgres.Connection; narrowed to the one
// method this package calls so tests can run against an in-memory fake
// instead of a live pool.
type transactor interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type UseCase struct {
	Conn     transactor
	Profiles compliance.Repository
	Audit    audit.Repository
	Outbox   *outboxsvc.UseCase
	Log      logging.Logger
}
