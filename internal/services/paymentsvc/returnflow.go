package paymentsvc

import (
	"context"

	"github.com/coziyoo/backend/pkg/apperr"
)

// Return records the provider's return-query payload into the
// PaymentAttempt's callback blob. It is informational only and never marks
// an order paid (spec.md §4.7) — the webhook is the sole authoritative
// source of payment confirmation.
func (uc *UseCase) Return(ctx context.Context, sessionID string, query map[string]any) error {
	attempt, err := uc.Payments.FindBySessionIDForUpdate(ctx, sessionID)
	if err != nil {
		return apperr.New(apperr.CodePaymentAttemptNotFound, "payment attempt not found")
	}
	return uc.Payments.RecordReturn(ctx, attempt.ID, query)
}
