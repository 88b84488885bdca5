// Package catalog implements the Category/Food half of C8: sellers publish
// Food items, grouped by Category, whose current_stock is a derived cache
// recomputed inside any transaction mutating lots. Grounded on the
// teacher's domain/onboarding/organization entity+repository split.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Food is owned by a seller AppUser and aggregates review/favorite/stock
// counters that are maintained by the lot engine and review service rather
// than edited directly by callers.
type Food struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	Description     string
	Price           string // Amount, serialized via pkg/money at the boundary
	Active          bool
	Rating          float64
	ReviewCount     int
	FavoriteCount   int
	CurrentStock    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]*Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// FoodListFilter narrows the buyer-facing catalog browse/search list
// (spec.md §6 "GET /foods").
type FoodListFilter struct {
	CategoryID *uuid.UUID
	Search     string
}

type FoodRepository interface {
	Create(ctx context.Context, f *Food) error
	Update(ctx context.Context, f *Food) error
	// Delete removes a food the owning seller has withdrawn from sale
	// (spec.md §6 "DELETE /foods/:id").
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Food, error)
	// FindByIDForUpdate row-locks the food, used while recomputing
	// current_stock inside a lot-mutating transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Food, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Food, error)
	// List is the offset-paginated catalog browse/search used by
	// GET /foods (spec.md §4.11 offset mode: page, pageSize, sortBy,
	// sortDir, stable created_at/id tie-break).
	List(ctx context.Context, filter FoodListFilter, page, pageSize int, sortBy, sortDir string) ([]*Food, int, error)
	// RecomputeCurrentStock sets current_stock to the sum of
	// quantity_available over that food's open lots (spec.md §3).
	RecomputeCurrentStock(ctx context.Context, foodID uuid.UUID) error
	ApplyReviewDelta(ctx context.Context, foodID uuid.UUID, ratingSum float64, reviewCountDelta int) error
	ApplyFavoriteDelta(ctx context.Context, foodID uuid.UUID, delta int) error
}
