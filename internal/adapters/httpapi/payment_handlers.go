package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/internal/services/paymentsvc"
)

func (d *Deps) StartPayment(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}

	idem, err := d.checkIdempotency(c, "payment_start")
	if err != nil {
		return WithError(c, err)
	}
	if idem.Replay {
		return c.Status(idem.Status).Send(idem.Body)
	}

	res, err := d.Payments.Start(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}

	body, _ := jsonEnvelope(fiber.Map{"data": res})
	d.storeIdempotent(c, "payment_start", fiber.StatusOK, body)
	return c.Status(fiber.StatusOK).Send(body)
}

type paymentWebhookRequest struct {
	SessionID           string `json:"sessionId" validate:"required"`
	ProviderReferenceID string `json:"providerReferenceId" validate:"required"`
	Result              string `json:"result" validate:"required,oneof=confirmed failed"`
}

// PaymentWebhook is deliberately not behind requireAuth: the caller is the
// external payment provider, authenticated instead by HMAC signature
// (spec.md §4.7).
func (d *Deps) PaymentWebhook(c *fiber.Ctx) error {
	raw := c.Body()

	var req paymentWebhookRequest
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}

	outcome, err := d.Payments.Webhook(c.UserContext(), paymentsvc.WebhookInput{
		SessionID:           req.SessionID,
		ProviderReferenceID: req.ProviderReferenceID,
		Result:              req.Result,
		RawBody:             raw,
		SignatureHex:        c.Get("X-Provider-Signature"),
	})
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, outcome)
}

func (d *Deps) PaymentReturn(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	query := map[string]any{}
	for k, v := range c.Queries() {
		query[k] = v
	}
	if err := d.Payments.Return(c.UserContext(), sessionID, query); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"acknowledged": true})
}
