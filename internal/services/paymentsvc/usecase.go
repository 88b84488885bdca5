// Package paymentsvc implements C9: the payment orchestrator. Grounded on
// the teacher's services/command.UseCase aggregator pattern; the webhook's
// HMAC verification and row-locked confirmation handling have no teacher
// analogue (the ledger domain has no external payment provider callback)
// and are written from spec.md §4.7 directly.
package paymentsvc

import (
	"context"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/payment"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
)

// transactor is satisfied by *postgres.Connection; narrowed to the one
// method this package calls so tests can run against an in-memory fake
// instead of a live pool.
type transactor interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

// UseCase aggregates the repositories and collaborators the payment
// orchestrator needs, following the teacher's command.UseCase shape.
type UseCase struct {
	Conn     transactor
	Orders   order.Repository
	Payments payment.Repository
	OrderSvc *ordersvc.UseCase
	Outbox   *outboxsvc.UseCase
	Secret   []byte
	Log      logging.Logger
}
