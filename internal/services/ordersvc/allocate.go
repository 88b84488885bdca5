package ordersvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// ConfirmPaid performs the FEFO stock/lot allocation algorithm from
// spec.md §4.6 steps 1-4 and transitions the order to paid, all inside one
// serializable transaction. Callers in an ambient transaction (e.g.
// paymentsvc's webhook handler) pass a ctx already carrying one, in which
// case Conn.WithTx joins it rather than nesting a second BEGIN.
func (uc *UseCase) ConfirmPaid(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	var result *order.Order

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}
		if err := order.RequireTransition(o.Status, order.StatusPaid); err != nil {
			return err
		}

		items, err := uc.Orders.Items(ctx, orderID)
		if err != nil {
			return err
		}

		foodsTouched := map[uuid.UUID]bool{}

		for _, item := range items {
			if err := uc.allocateItem(ctx, o.SellerID, item); err != nil {
				return err
			}
			foodsTouched[item.FoodID] = true
		}

		for foodID := range foodsTouched {
			if err := uc.Foods.RecomputeCurrentStock(ctx, foodID); err != nil {
				return err
			}
		}

		paymentCompleted := true
		if err := uc.Orders.UpdateStatus(ctx, orderID, order.StatusPaid, &paymentCompleted); err != nil {
			return err
		}
		if err := uc.Orders.AppendEvent(ctx, &order.Event{
			ID:         idgen.NewID(),
			OrderID:    orderID,
			EventType:  "order_paid",
			FromStatus: o.Status,
			ToStatus:   order.StatusPaid,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		o.Status = order.StatusPaid
		o.PaymentCompleted = true
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// allocateItem greedily subtracts item.Quantity from the FEFO-ordered,
// row-locked candidate lots for (sellerID, item.FoodID), writing one
// OrderItemLotAllocation row per lot drawn from. Aborts with
// INSUFFICIENT_LOT_STOCK:<foodId> if the candidate lots can't cover the
// full requested quantity (spec.md §4.6 step 4).
func (uc *UseCase) allocateItem(ctx context.Context, sellerID uuid.UUID, item *order.Item) error {
	candidates, err := uc.Lots.CandidateLotsForUpdate(ctx, sellerID, item.FoodID)
	if err != nil {
		return err
	}

	remaining := item.Quantity
	for _, l := range candidates {
		if remaining == 0 {
			break
		}
		take := l.QuantityAvailable
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}

		if err := uc.Lots.DecrementAvailable(ctx, l.ID, take); err != nil {
			return err
		}
		if err := uc.Lots.CreateAllocation(ctx, &lot.OrderItemLotAllocation{
			ID:          idgen.NewID(),
			OrderItemID: item.ID,
			LotID:       l.ID,
			Quantity:    take,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}
		remaining -= take
	}

	if remaining > 0 {
		return apperr.Newf(apperr.CodeInsufficientLotStock, "INSUFFICIENT_LOT_STOCK:%s", item.FoodID)
	}
	return nil
}
