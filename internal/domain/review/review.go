// Package review implements Review/Favorite/UserAddress: unique per (buyer,
// food, order) for reviews, one default address per user, standard CRUD
// with uniqueness constraints per spec.md §3.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID
	BuyerID   uuid.UUID
	FoodID    uuid.UUID
	OrderID   uuid.UUID
	Rating    int
	Body      string
	CreatedAt time.Time
}

type Favorite struct {
	ID        uuid.UUID
	BuyerID   uuid.UUID
	FoodID    uuid.UUID
	CreatedAt time.Time
}

type Address struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Label     string
	Line1     string
	Line2     string
	City      string
	Country   string
	Lat, Lng  *float64
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ExistsForOrder(ctx context.Context, buyerID, foodID, orderID uuid.UUID) (bool, error)
	ListByFood(ctx context.Context, foodID uuid.UUID, cursorID string, limit int) ([]*Review, bool, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, f *Favorite) error
	Remove(ctx context.Context, buyerID, foodID uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Favorite, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	// SetDefault clears any existing default for the user and sets id,
	// enforcing "one default address per user" transactionally.
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}
