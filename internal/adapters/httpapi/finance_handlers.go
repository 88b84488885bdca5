package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (d *Deps) AdminSetCommissionRate(c *fiber.Ctx) error {
	var req struct {
		Rate          string    `json:"rate" validate:"required"`
		EffectiveFrom time.Time `json:"effectiveFrom" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	setting, err := d.Finance.SetCommissionRate(c.UserContext(), req.Rate, req.EffectiveFrom)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, setting)
}

func (d *Deps) ActiveCommissionRate(c *fiber.Ctx) error {
	setting, err := d.Finance.ActiveRate(c.UserContext())
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, setting)
}

func (d *Deps) SellerFinanceSummary(c *fiber.Ctx) error {
	p := principalFrom(c)
	sellerID := p.UserID
	if p.IsAdmin() {
		if id, ok := pathUUID(c, "sellerId"); ok {
			sellerID = id
		} else {
			return nil
		}
	}
	summary, err := d.Finance.SellerSummary(c.UserContext(), sellerID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, summary)
}

func (d *Deps) AdminGenerateReconciliationReport(c *fiber.Ctx) error {
	var req struct {
		PeriodStart time.Time `json:"periodStart" validate:"required"`
		PeriodEnd   time.Time `json:"periodEnd" validate:"required,gtfield=PeriodStart"`
		FileURL     string    `json:"fileUrl" validate:"required"`
		Checksum    string    `json:"checksum" validate:"required"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	report, err := d.Finance.GenerateReport(c.UserContext(), req.PeriodStart, req.PeriodEnd, req.FileURL, req.Checksum)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, report)
}
