package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/internal/services/compliancesvc"
)

func (d *Deps) EnsureComplianceProfile(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req struct {
		Country string `json:"country" validate:"required,len=2"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	profile, err := d.Compliance.EnsureProfile(c.UserContext(), p.UserID, req.Country)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, profile)
}

func (d *Deps) UpsertComplianceCheck(c *fiber.Ctx) error {
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		CheckCode string `json:"checkCode" validate:"required"`
		Required  bool   `json:"required"`
		Status    string `json:"status" validate:"required,oneof=pending verified failed"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	if err := d.Compliance.UpsertCheck(c.UserContext(), profileID, p.UserID, req.CheckCode, req.Required, compliance.CheckStatus(req.Status)); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"upserted": true})
}

func (d *Deps) AddComplianceDocument(c *fiber.Ctx) error {
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return nil
	}
	var req struct {
		DocType      string    `json:"docType" validate:"required"`
		MediaAssetID uuid.UUID `json:"mediaAssetId" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	if err := d.Compliance.AddDocument(c.UserContext(), profileID, req.DocType, req.MediaAssetID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"added": true})
}

func (d *Deps) SubmitComplianceProfile(c *fiber.Ctx) error {
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	profile, err := d.Compliance.Submit(c.UserContext(), profileID, &p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, profile)
}

func (d *Deps) AdminReviewCompliance(c *fiber.Ctx) error {
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		Action string `json:"action" validate:"required,oneof=approve reject request_changes"`
		Reason string `json:"reason"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	profile, err := d.Compliance.Review(c.UserContext(), profileID, p.UserID, compliancesvc.ReviewAction(req.Action), req.Reason)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, profile)
}

func (d *Deps) AdminSuspendCompliance(c *fiber.Ctx) error {
	profileID, ok := pathUUID(c, "profileId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	profile, err := d.Compliance.Suspend(c.UserContext(), profileID, p.UserID, req.Reason)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, profile)
}
