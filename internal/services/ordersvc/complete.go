package ordersvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/money"
)

// Complete advances a delivered order to completed, enforcing the
// completion gate from spec.md §4.10: delivery proof must be verified (for
// delivery-type orders) and both the pre_order and handover allergen
// disclosure records must exist, unless an admin overrides the gate. On
// success it creates the order's immutable OrderFinance snapshot
// (spec.md §4.9), idempotently.
func (uc *UseCase) Complete(ctx context.Context, orderID uuid.UUID, adminOverride bool, actorID *uuid.UUID) (*order.Order, error) {
	var result *order.Order

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}
		if err := order.RequireTransition(o.Status, order.StatusCompleted); err != nil {
			return err
		}

		if !adminOverride {
			if o.DeliveryType == order.DeliveryTypeDelivery {
				rec, err := uc.Delivery.FindByOrderIDForUpdate(ctx, orderID)
				if err != nil {
					return apperr.New(apperr.CodeDeliveryProofNotFound, "delivery proof not found")
				}
				if rec.Status != delivery.StatusVerified {
					return apperr.New(apperr.CodeDeliveryProofNotFound, "delivery proof not verified")
				}
			}

			bothPhases, err := uc.Disclosures.ExistsForBothPhases(ctx, orderID)
			if err != nil {
				return err
			}
			if !bothPhases {
				return apperr.New(apperr.CodeValidation, "allergen disclosure missing for pre_order or handover phase")
			}
		}

		from := o.Status
		if err := uc.Orders.UpdateStatus(ctx, orderID, order.StatusCompleted, nil); err != nil {
			return err
		}
		if err := uc.Orders.AppendEvent(ctx, &order.Event{
			ID:         idgen.NewID(),
			OrderID:    orderID,
			EventType:  "order_completed",
			FromStatus: from,
			ToStatus:   order.StatusCompleted,
			ActorID:    actorID,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.createOrderFinance(ctx, o); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "order_completed", "order", o.ID, o); err != nil {
			return err
		}

		o.Status = order.StatusCompleted
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createOrderFinance snapshots the active commission rate against the
// order's total and writes the immutable OrderFinance row. Idempotent: a
// retry (e.g. after a crash between commit and ack) finds the row already
// present via the repository's unique-on-order_id guarantee and no-ops.
func (uc *UseCase) createOrderFinance(ctx context.Context, o *order.Order) error {
	if existing, _ := uc.Finance.FindOrderFinanceByOrderID(ctx, o.ID); existing != nil {
		return nil
	}

	setting, err := uc.Finance.ActiveCommissionSetting(ctx)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "no active commission setting", err)
	}

	gross, err := money.NewAmount(o.TotalPrice)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "invalid stored order total", err)
	}
	rate, err := money.NewRate(setting.Rate)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "invalid stored commission rate", err)
	}

	commission, net := money.Commission(gross, rate)

	return uc.Finance.CreateOrderFinance(ctx, &finance.OrderFinance{
		ID:                     idgen.NewID(),
		OrderID:                o.ID,
		Gross:                  gross.String(),
		CommissionRateSnapshot: rate.String(),
		CommissionAmount:       commission.String(),
		SellerNetAmount:        net.String(),
		CreatedAt:              time.Now().UTC(),
	})
}
