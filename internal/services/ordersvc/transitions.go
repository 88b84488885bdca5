package ordersvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// transition loads the order for update, validates the edge, writes the new
// status and an OrderEvent, all inside a single transaction.
func (uc *UseCase) transition(ctx context.Context, orderID uuid.UUID, to order.Status, eventType string, actorID *uuid.UUID, paymentCompleted *bool) (*order.Order, error) {
	var result *order.Order

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}

		if err := order.RequireTransition(o.Status, to); err != nil {
			return err
		}

		from := o.Status
		if err := uc.Orders.UpdateStatus(ctx, orderID, to, paymentCompleted); err != nil {
			return err
		}

		if err := uc.Orders.AppendEvent(ctx, &order.Event{
			ID:         idgen.NewID(),
			OrderID:    orderID,
			EventType:  eventType,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    actorID,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		o.Status = to
		if paymentCompleted != nil {
			o.PaymentCompleted = *paymentCompleted
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SellerApprove: pending_seller_approval -> seller_approved.
func (uc *UseCase) SellerApprove(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusSellerApproved, "seller_approved", &sellerID, nil)
}

// Reject: pending_seller_approval -> rejected.
func (uc *UseCase) Reject(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusRejected, "order_rejected", &sellerID, nil)
}

// Cancel is drivable by buyer pre-preparing or seller at several stages; the
// actor-role/ownership check itself lives in the HTTP/authz layer per
// spec.md §4.2 — this method only enforces the state-machine edge.
func (uc *UseCase) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusCancelled, "order_cancelled", &actorID, nil)
}

// Prepare: paid -> preparing.
func (uc *UseCase) Prepare(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusPreparing, "order_preparing", &sellerID, nil)
}

// Ready: preparing -> ready.
func (uc *UseCase) Ready(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusReady, "order_ready", &sellerID, nil)
}

// DispatchForDelivery: ready -> in_delivery.
func (uc *UseCase) DispatchForDelivery(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusInDelivery, "order_in_delivery", &sellerID, nil)
}

// Deliver: ready|in_delivery -> delivered.
func (uc *UseCase) Deliver(ctx context.Context, orderID, sellerID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusDelivered, "order_delivered", &sellerID, nil)
}
