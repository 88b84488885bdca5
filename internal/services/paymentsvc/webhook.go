package paymentsvc

import (
	"context"
	"time"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/payment"
	"github.com/coziyoo/backend/pkg/apperr"
)

// WebhookInput is the provider's callback, already read off the wire by the
// transport layer: RawBody is the exact bytes the signature was computed
// over.
type WebhookInput struct {
	SessionID           string
	ProviderReferenceID string
	Result              string // "confirmed" | "failed"
	RawBody             []byte
	SignatureHex        string
}

// WebhookOutcome is returned on every non-error path; the transport layer
// maps it to the 200 envelope `{accepted, paid, idempotent?}` (spec.md §6).
type WebhookOutcome struct {
	Accepted   bool
	Paid       bool
	Idempotent bool
}

// Webhook applies a provider callback per the four behaviors of spec.md
// §4.7. It is the sole authoritative source of payment confirmation: only a
// valid, "confirmed" callback against an order still in awaiting_payment
// ever marks an order paid, and that transition (plus FEFO stock
// allocation) happens atomically with the PaymentAttempt update by calling
// ordersvc.ConfirmPaid from inside this method's own transaction.
func (uc *UseCase) Webhook(ctx context.Context, in WebhookInput) (*WebhookOutcome, error) {
	var outcome *WebhookOutcome

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		attempt, err := uc.Payments.FindBySessionIDForUpdate(ctx, in.SessionID)
		if err != nil {
			return apperr.New(apperr.CodePaymentAttemptNotFound, "unknown payment session")
		}

		if !VerifySignature(uc.Secret, in.RawBody, in.SignatureHex) {
			if attempt.Status != payment.StatusConfirmed {
				_ = uc.Payments.ApplyWebhookResult(ctx, attempt.ID, payment.StatusConfirmationFailed, false, nil, rawPayload(in))
			}
			return apperr.New(apperr.CodeWebhookSignatureInvalid, "invalid webhook signature")
		}

		if attempt.Status == payment.StatusConfirmed {
			_ = uc.Payments.ApplyWebhookResult(ctx, attempt.ID, payment.StatusConfirmed, true, &in.ProviderReferenceID, rawPayload(in))
			outcome = &WebhookOutcome{Accepted: true, Paid: true, Idempotent: true}
			return nil
		}

		if in.Result == "failed" {
			if err := uc.Payments.ApplyWebhookResult(ctx, attempt.ID, payment.StatusConfirmationFailed, true, &in.ProviderReferenceID, rawPayload(in)); err != nil {
				return err
			}
			outcome = &WebhookOutcome{Accepted: true, Paid: false}
			return nil
		}

		o, err := uc.Orders.FindByID(ctx, attempt.OrderID)
		if err != nil {
			return apperr.New(apperr.CodeOrderNotFound, "order not found")
		}
		if o.Status != order.StatusAwaitingPayment {
			_ = uc.Payments.ApplyWebhookResult(ctx, attempt.ID, payment.StatusConfirmationFailed, true, &in.ProviderReferenceID, rawPayload(in))
			return apperr.Newf(apperr.CodePaymentSessionConflict, "order %s left awaiting_payment before confirmation", o.ID)
		}

		if err := uc.Payments.ApplyWebhookResult(ctx, attempt.ID, payment.StatusConfirmed, true, &in.ProviderReferenceID, rawPayload(in)); err != nil {
			return err
		}

		if _, err := uc.OrderSvc.ConfirmPaid(ctx, attempt.OrderID); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "payment_confirmed", "order", attempt.OrderID, map[string]any{
			"orderId":             attempt.OrderID,
			"providerReferenceId": in.ProviderReferenceID,
			"confirmedAt":         time.Now().UTC(),
		}); err != nil {
			return err
		}

		outcome = &WebhookOutcome{Accepted: true, Paid: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func rawPayload(in WebhookInput) map[string]any {
	return map[string]any{
		"sessionId":           in.SessionID,
		"providerReferenceId": in.ProviderReferenceID,
		"result":              in.Result,
	}
}
