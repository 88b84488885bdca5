package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/internal/domain/dispute"
)

func (d *Deps) RequestRefund(c *fiber.Ctx) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)

	idem, err := d.checkIdempotency(c, "refund_request")
	if err != nil {
		return WithError(c, err)
	}
	if idem.Replay {
		return c.Status(idem.Status).Send(idem.Body)
	}

	var req struct {
		ReasonCode string `json:"reasonCode" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}

	cs, err := d.Dispute.RequestRefund(c.UserContext(), orderID, p.UserID, req.ReasonCode)
	if err != nil {
		return WithError(c, err)
	}

	body, _ := jsonEnvelope(fiber.Map{"data": cs})
	d.storeIdempotent(c, "refund_request", fiber.StatusCreated, body)
	return c.Status(fiber.StatusCreated).Send(body)
}

func (d *Deps) AdminResolveDispute(c *fiber.Ctx) error {
	caseID, ok := pathUUID(c, "caseId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		Status      string  `json:"status" validate:"required,oneof=won lost closed"`
		Liability   string  `json:"liability" validate:"required,oneof=platform seller provider shared"`
		SellerRatio float64 `json:"sellerRatio" validate:"gte=0,lte=1"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	cs, err := d.Dispute.Resolve(c.UserContext(), caseID, p.UserID, dispute.Status(req.Status), dispute.LiabilityParty(req.Liability), req.SellerRatio)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, cs)
}
