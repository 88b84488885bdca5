package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/services/reviewsvc"
)

func (d *Deps) CreateReview(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req struct {
		FoodID  uuid.UUID `json:"foodId" validate:"required"`
		OrderID uuid.UUID `json:"orderId" validate:"required"`
		Rating  int       `json:"rating" validate:"required,gte=1,lte=5"`
		Body    string    `json:"body" validate:"max=4000"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	r, err := d.Review.CreateReview(c.UserContext(), p.UserID, req.FoodID, req.OrderID, req.Rating, req.Body)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, r)
}

func (d *Deps) ListReviews(c *fiber.Ctx) error {
	foodID, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	limit := queryLimit(c, 20, 100)
	cursorID, err := decodeCursorID(c)
	if err != nil {
		return WithError(c, err)
	}
	reviews, hasMore, err := d.Review.ListReviews(c.UserContext(), foodID, cursorID, limit)
	if err != nil {
		return WithError(c, err)
	}
	last := ""
	if len(reviews) > 0 {
		last = reviews[len(reviews)-1].ID.String()
	}
	return OKCursor(c, reviews, cursorResult(last, hasMore, limit))
}

func (d *Deps) FavoriteFood(c *fiber.Ctx) error {
	foodID, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	if err := d.Review.Favorite(c.UserContext(), p.UserID, foodID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"favorited": true})
}

func (d *Deps) UnfavoriteFood(c *fiber.Ctx) error {
	foodID, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	if err := d.Review.Unfavorite(c.UserContext(), p.UserID, foodID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"favorited": false})
}

func (d *Deps) ListFavorites(c *fiber.Ctx) error {
	p := principalFrom(c)
	favs, err := d.Review.ListFavorites(c.UserContext(), p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, favs)
}

func (d *Deps) AddAddress(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req struct {
		Label     string   `json:"label" validate:"required"`
		Line1     string   `json:"line1" validate:"required"`
		Line2     string   `json:"line2"`
		City      string   `json:"city" validate:"required"`
		Country   string   `json:"country" validate:"required,len=2"`
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		IsDefault bool     `json:"isDefault"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	addr, err := d.Review.AddAddress(c.UserContext(), p.UserID, reviewsvc.AddressInput{
		Label:     req.Label,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		Country:   req.Country,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, addr)
}

func (d *Deps) SetDefaultAddress(c *fiber.Ctx) error {
	addressID, ok := pathUUID(c, "addressId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	if err := d.Review.SetDefaultAddress(c.UserContext(), p.UserID, addressID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"default": true})
}

func (d *Deps) ListAddresses(c *fiber.Ctx) error {
	p := principalFrom(c)
	addrs, err := d.Review.ListAddresses(c.UserContext(), p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, addrs)
}

func (d *Deps) DeleteAddress(c *fiber.Ctx) error {
	addressID, ok := pathUUID(c, "addressId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	if err := d.Review.DeleteAddress(c.UserContext(), p.UserID, addressID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"deleted": true})
}
