package paymentsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/payment"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// StartResult carries the checkout URL a buyer follows to the provider.
type StartResult struct {
	Order       *order.Order
	Attempt     *payment.Attempt
	CheckoutURL string
}

// Start begins a checkout session for an order (spec.md §4.7). It is
// idempotent at the HTTP boundary via idempotencysvc; here it is idempotent
// in the sense that calling it again for an order already in
// awaiting_payment simply returns the existing attempt's checkout URL
// rather than creating a second PaymentAttempt.
func (uc *UseCase) Start(ctx context.Context, orderID uuid.UUID) (*StartResult, error) {
	var result *StartResult

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		o, err := uc.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}

		if o.Status != order.StatusSellerApproved && o.Status != order.StatusAwaitingPayment {
			return apperr.Newf(apperr.CodeOrderInvalidState, "cannot start payment from status %s", o.Status)
		}

		if o.Status == order.StatusAwaitingPayment {
			attempt, err := uc.Payments.FindByOrderID(ctx, orderID)
			if err != nil {
				return apperr.Wrap(apperr.CodePaymentAttemptNotFound, "payment attempt not found for awaiting_payment order", err)
			}
			result = &StartResult{Order: o, Attempt: attempt, CheckoutURL: checkoutURL(attempt.ProviderSessionID)}
			return nil
		}

		from := o.Status
		if err := order.RequireTransition(from, order.StatusAwaitingPayment); err != nil {
			return err
		}
		if err := uc.Orders.UpdateStatus(ctx, orderID, order.StatusAwaitingPayment, nil); err != nil {
			return err
		}
		if err := uc.Orders.AppendEvent(ctx, &order.Event{
			ID:         idgen.NewID(),
			OrderID:    orderID,
			EventType:  "order_awaiting_payment",
			FromStatus: from,
			ToStatus:   order.StatusAwaitingPayment,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		attempt := &payment.Attempt{
			ID:                idgen.NewID(),
			OrderID:           orderID,
			Provider:          "mock-provider",
			ProviderSessionID: idgen.ShortID(),
			Status:            payment.StatusInitiated,
			CreatedAt:         time.Now().UTC(),
			UpdatedAt:         time.Now().UTC(),
		}
		if err := uc.Payments.Create(ctx, attempt); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "payment_session_started", "order", orderID, attempt); err != nil {
			return err
		}

		o.Status = order.StatusAwaitingPayment
		result = &StartResult{Order: o, Attempt: attempt, CheckoutURL: checkoutURL(attempt.ProviderSessionID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func checkoutURL(sessionID string) string {
	return fmt.Sprintf("https://pay.coziyoo.example/checkout/%s", sessionID)
}
