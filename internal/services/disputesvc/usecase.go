// Package disputesvc implements the dispute half of C11: refund requests
// and admin resolution with liability-ratio adjustments (spec.md §4.10,
// S5). Grounded on the teacher's services/command.UseCase aggregator,
// combining the order/finance/audit repositories the way ordersvc.Complete
// combines order/finance/delivery/disclosure.
package disputesvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/domain/dispute"
	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/money"
)

// transactor is satisfied by *postgres.Connection; narrowed to the one
// method this package calls so tests can run against an in-memory fake
// instead of a live pool.
type transactor interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type UseCase struct {
	Conn     transactor
	Orders   order.Repository
	Disputes dispute.Repository
	Finance  finance.Repository
	Audit    audit.Repository
	Outbox   *outboxsvc.UseCase
	Log      logging.Logger
}

// refundableStates is the set of order statuses a refund request is
// callable from (spec.md §4.10).
var refundableStates = map[order.Status]bool{
	order.StatusPaid:      true,
	order.StatusPreparing: true,
	order.StatusReady:     true,
	order.StatusInDelivery: true,
	order.StatusDelivered: true,
	order.StatusCompleted: true,
}

// RequestRefund opens a PaymentDisputeCase (type=refund) with
// liability_party=platform and posts a -total_price FinanceAdjustment
// linked to the case, enqueuing dispute_opened (spec.md §4.10, S5).
func (uc *UseCase) RequestRefund(ctx context.Context, orderID, buyerID uuid.UUID, reasonCode string) (*dispute.Case, error) {
	var result *dispute.Case

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}
		if o.BuyerID != buyerID {
			return apperr.New(apperr.CodeForbiddenOrderScope, "order does not belong to this buyer")
		}
		if !refundableStates[o.Status] {
			return apperr.Newf(apperr.CodeOrderInvalidState, "cannot request refund from status %s", o.Status)
		}

		if existing, _ := uc.Disputes.FindOpenByOrderID(ctx, orderID); existing != nil {
			result = existing
			return nil
		}

		total, err := money.NewAmount(o.TotalPrice)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "invalid stored order total", err)
		}

		c := &dispute.Case{
			ID:             idgen.NewID(),
			OrderID:        orderID,
			CaseType:       dispute.CaseTypeRefund,
			Status:         dispute.StatusOpened,
			LiabilityParty: dispute.LiabilityPlatform,
			Evidence:       map[string]any{"reasonCode": reasonCode},
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}
		if err := uc.Disputes.Create(ctx, c); err != nil {
			return err
		}

		if err := uc.Finance.CreateAdjustment(ctx, &finance.Adjustment{
			ID:        idgen.NewID(),
			SellerID:  o.SellerID,
			OrderID:   orderID,
			DisputeID: &c.ID,
			Reason:    finance.AdjustmentReasonRefund,
			Amount:    total.Neg().String(),
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "dispute_opened", "order", orderID, c); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Resolve applies an admin's won/lost/closed ruling. A lost ruling applies
// liability_ratio to -total_price and records the signed adjustment linked
// to the case (spec.md §4.10). Per SPEC_FULL.md's Open Question
// resolution, this resolution-time adjustment is posted in addition to the
// refund-request-time adjustment — a deliberate net -2x gross for a fully
// seller-liable lost refund dispute, not a correction of it.
func (uc *UseCase) Resolve(ctx context.Context, caseID, adminID uuid.UUID, status dispute.Status, liability dispute.LiabilityParty, sellerRatio float64) (*dispute.Case, error) {
	if sellerRatio < 0 {
		sellerRatio = 0
	}
	if sellerRatio > 1 {
		sellerRatio = 1
	}

	var result *dispute.Case

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		c, err := uc.Disputes.FindByIDForUpdate(ctx, caseID)
		if err != nil {
			return apperr.New(apperr.CodeDisputeNotFound, "dispute case not found")
		}
		if c.Status != dispute.StatusOpened && c.Status != dispute.StatusUnderReview {
			return apperr.Newf(apperr.CodeOrderInvalidState, "cannot resolve dispute in status %s", c.Status)
		}

		o, err := uc.Orders.FindByID(ctx, c.OrderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}

		before := map[string]any{"status": c.Status}
		if err := uc.Disputes.Resolve(ctx, caseID, status, liability, sellerRatio); err != nil {
			return err
		}

		if status == dispute.StatusLost {
			total, err := money.NewAmount(o.TotalPrice)
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "invalid stored order total", err)
			}
			ratio := sellerRatioFor(liability, sellerRatio)
			amount := total.Neg().Mul(ratio)

			if err := uc.Finance.CreateAdjustment(ctx, &finance.Adjustment{
				ID:        idgen.NewID(),
				SellerID:  o.SellerID,
				OrderID:   o.ID,
				DisputeID: &c.ID,
				Reason:    finance.AdjustmentReasonDispute,
				Amount:    amount.String(),
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
		}

		if err := uc.Audit.Append(ctx, &audit.Log{
			ID:         idgen.NewID(),
			ActorID:    adminID,
			Action:     "dispute_resolve",
			EntityType: "payment_dispute_case",
			EntityID:   caseID,
			Before:     before,
			After:      map[string]any{"status": status, "liabilityParty": liability, "liabilityRatio": sellerRatio},
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		c.Status = status
		c.LiabilityParty = liability
		c.LiabilityRatio = sellerRatio
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sellerRatioFor resolves the ratio applied to -total_price for the chosen
// liability party (spec.md §4.10:
// "{seller:1, platform:0, provider:0, shared:clamp(ratio.seller)}").
func sellerRatioFor(party dispute.LiabilityParty, sellerRatio float64) decimal.Decimal {
	switch party {
	case dispute.LiabilitySeller:
		return decimal.NewFromInt(1)
	case dispute.LiabilityShared:
		return decimal.NewFromFloat(sellerRatio)
	default:
		return decimal.Zero
	}
}
