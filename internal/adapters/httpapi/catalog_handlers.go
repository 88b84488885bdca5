package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/pagination"
)

// foodListSort allowlists the columns GET /foods may sort by (spec.md
// §4.11 offset mode).
var foodListSort = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"rating":     "rating",
}

func (d *Deps) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required,min=2,max=60"`
		Slug string `json:"slug" validate:"required,min=2,max=60"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	now := time.Now().UTC()
	cat := &catalog.Category{ID: idgen.NewID(), Name: req.Name, Slug: req.Slug, CreatedAt: now, UpdatedAt: now}
	if err := d.Categories.Create(c.UserContext(), cat); err != nil {
		return WithError(c, err)
	}
	return Created(c, cat)
}

func (d *Deps) ListCategories(c *fiber.Ctx) error {
	cats, err := d.Categories.List(c.UserContext())
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, cats)
}

type createFoodRequest struct {
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Price       string    `json:"price" validate:"required"`
}

func (d *Deps) CreateFood(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req createFoodRequest
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	now := time.Now().UTC()
	f := &catalog.Food{
		ID:          idgen.NewID(),
		SellerID:    p.UserID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.Foods.Create(c.UserContext(), f); err != nil {
		return WithError(c, err)
	}
	return Created(c, f)
}

func (d *Deps) UpdateFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	p := principalFrom(c)

	f, err := d.Foods.FindByID(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}
	if f.SellerID != p.UserID {
		return WithError(c, ownershipError())
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *string `json:"price"`
		Active      *bool   `json:"active"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.Price != nil {
		f.Price = *req.Price
	}
	if req.Active != nil {
		f.Active = *req.Active
	}
	f.UpdatedAt = time.Now().UTC()
	if err := d.Foods.Update(c.UserContext(), f); err != nil {
		return WithError(c, err)
	}
	return OK(c, f)
}

// ListFoods is the buyer-facing catalog browse/search (spec.md §6
// "GET /foods"), offset-paginated per spec.md §4.11.
func (d *Deps) ListFoods(c *fiber.Ctx) error {
	o, err := pagination.ValidateOffset(pagination.Offset{
		Page:     queryIntParam(c, "page", 1),
		PageSize: queryIntParam(c, "pageSize", 20),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
	}, foodListSort, 100)
	if err != nil {
		return WithError(c, err)
	}

	filter := catalog.FoodListFilter{Search: c.Query("search")}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return WithError(c, paramUUIDErr("categoryId", raw))
		}
		filter.CategoryID = &id
	}

	foods, total, err := d.Foods.List(c.UserContext(), filter, o.Page, o.PageSize, o.SortBy, o.SortDir)
	if err != nil {
		return WithError(c, err)
	}
	return OKPage(c, foods, pagination.NewOffsetResult(o.Page, o.PageSize, total))
}

func (d *Deps) DeleteFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	p := principalFrom(c)

	f, err := d.Foods.FindByID(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}
	if f.SellerID != p.UserID {
		return WithError(c, ownershipError())
	}

	if err := d.Foods.Delete(c.UserContext(), id); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"deleted": true})
}

func (d *Deps) GetFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "foodId")
	if !ok {
		return nil
	}
	f, err := d.Foods.FindByID(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, f)
}

func (d *Deps) ListFoodsBySeller(c *fiber.Ctx) error {
	sellerID, ok := pathUUID(c, "sellerId")
	if !ok {
		return nil
	}
	foods, err := d.Foods.ListBySeller(c.UserContext(), sellerID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, foods)
}
