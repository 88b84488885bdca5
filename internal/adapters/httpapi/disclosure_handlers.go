package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/internal/domain/disclosure"
)

func (d *Deps) RecordDisclosure(c *fiber.Ctx) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		Phase               string   `json:"phase" validate:"required,oneof=pre_order handover"`
		Allergens           []string `json:"allergens"`
		ConfirmationMethod  string   `json:"confirmationMethod" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	rec, err := d.Disclosure.Record(c.UserContext(), orderID, p.UserID, disclosure.Phase(req.Phase), req.Allergens, req.ConfirmationMethod)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, rec)
}

func (d *Deps) GetDisclosure(c *fiber.Ctx) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	phase := c.Query("phase", string(disclosure.PhasePreOrder))
	rec, err := d.Disclosure.Get(c.UserContext(), orderID, disclosure.Phase(phase))
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, rec)
}
