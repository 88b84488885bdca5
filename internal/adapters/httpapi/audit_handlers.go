package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (d *Deps) AdminListAuditLog(c *fiber.Ctx) error {
	entityType := c.Query("entityType")
	entityID, ok := pathUUID(c, "entityId")
	if !ok {
		return nil
	}
	logs, err := d.Audit.ListByEntity(c.UserContext(), entityType, entityID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, logs)
}

func (d *Deps) AdminPlaceLegalHold(c *fiber.Ctx) error {
	var req struct {
		EntityType string `json:"entityType" validate:"required"`
		EntityID   string `json:"entityId" validate:"required,uuid"`
		Reason     string `json:"reason" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	id, err := uuid.Parse(req.EntityID)
	if err != nil {
		return WithError(c, paramUUIDErr("entityId", req.EntityID))
	}
	if err := d.Retention.PlaceHold(c.UserContext(), req.EntityType, id, req.Reason); err != nil {
		return WithError(c, err)
	}
	return Created(c, fiber.Map{"held": true})
}

func (d *Deps) AdminReleaseLegalHold(c *fiber.Ctx) error {
	holdID, ok := pathUUID(c, "holdId")
	if !ok {
		return nil
	}
	if err := d.Retention.ReleaseHold(c.UserContext(), holdID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"released": true})
}
