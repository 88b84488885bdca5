package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (d *Deps) IssueDeliveryPIN(c *fiber.Ctx) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	pin, err := d.Delivery.IssuePIN(c.UserContext(), orderID)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, fiber.Map{"pin": pin})
}

func (d *Deps) VerifyDeliveryPIN(c *fiber.Ctx) error {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	var req struct {
		PIN string `json:"pin" validate:"required,len=6,numeric"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	if err := d.Delivery.Verify(c.UserContext(), orderID, req.PIN); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"verified": true})
}
