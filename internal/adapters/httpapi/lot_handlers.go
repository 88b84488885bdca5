package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/pkg/idgen"
)

type createLotRequest struct {
	FoodID           uuid.UUID  `json:"foodId" validate:"required"`
	LotNumber        string     `json:"lotNumber" validate:"required"`
	ProducedAt       time.Time  `json:"producedAt" validate:"required"`
	UseBy            *time.Time `json:"useBy"`
	BestBefore       *time.Time `json:"bestBefore"`
	QuantityProduced int        `json:"quantityProduced" validate:"required,gt=0"`
}

func (d *Deps) CreateLot(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req createLotRequest
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}

	now := time.Now().UTC()
	l := &lot.ProductionLot{
		ID:                idgen.NewID(),
		SellerID:          p.UserID,
		FoodID:            req.FoodID,
		LotNumber:         req.LotNumber,
		ProducedAt:        req.ProducedAt,
		UseBy:             req.UseBy,
		BestBefore:        req.BestBefore,
		QuantityProduced:  req.QuantityProduced,
		QuantityAvailable: req.QuantityProduced,
		Status:            lot.StatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := d.Lots.Create(c.UserContext(), l); err != nil {
		return WithError(c, err)
	}
	if err := d.Foods.RecomputeCurrentStock(c.UserContext(), req.FoodID); err != nil {
		return WithError(c, err)
	}
	return Created(c, l)
}

func (d *Deps) ListLotsBySeller(c *fiber.Ctx) error {
	p := principalFrom(c)
	lots, err := d.Lots.ListBySeller(c.UserContext(), p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, lots)
}

func (d *Deps) recomputeAfterLotChange(c *fiber.Ctx, lotID uuid.UUID) error {
	l, err := d.Lots.FindByID(c.UserContext(), lotID)
	if err != nil {
		return err
	}
	return d.Foods.RecomputeCurrentStock(c.UserContext(), l.FoodID)
}

func (d *Deps) RecallLot(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "lotId")
	if !ok {
		return nil
	}
	if err := d.Lots.Recall(c.UserContext(), id); err != nil {
		return WithError(c, err)
	}
	if err := d.recomputeAfterLotChange(c, id); err != nil {
		return WithError(c, err)
	}
	if err := d.Outbox.Enqueue(c.UserContext(), "lot_recalled", "production_lot", id, fiber.Map{"lotId": id}); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"recalled": true})
}

func (d *Deps) AdminAdjustLot(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "lotId")
	if !ok {
		return nil
	}
	var req struct {
		QuantityAvailable int    `json:"quantityAvailable" validate:"gte=0"`
		Status            string `json:"status" validate:"required,oneof=open locked depleted recalled discarded"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	if err := d.Lots.Adjust(c.UserContext(), id, req.QuantityAvailable, lot.Status(req.Status)); err != nil {
		return WithError(c, err)
	}
	if err := d.recomputeAfterLotChange(c, id); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"adjusted": true})
}

func (d *Deps) DiscardLot(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "lotId")
	if !ok {
		return nil
	}
	if err := d.Lots.Discard(c.UserContext(), id); err != nil {
		return WithError(c, err)
	}
	if err := d.recomputeAfterLotChange(c, id); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"discarded": true})
}
