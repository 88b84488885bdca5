// Package reviewsvc implements C13's review/favorite/address half:
// verified-purchase review constraints, favorite toggling, and the
// one-default-address-per-user invariant (spec.md §3).
package reviewsvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/review"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

type UseCase struct {
	Reviews   review.ReviewRepository
	Favorites review.FavoriteRepository
	Addresses review.AddressRepository
	Orders    order.Repository
	Foods     catalog.FoodRepository
	Log       logging.Logger
}

// CreateReview writes a review unique per (buyer, food, order), requiring a
// completed order the buyer placed for that food (the "verified purchase"
// constraint); it bumps the food's rating/review_count aggregates.
func (uc *UseCase) CreateReview(ctx context.Context, buyerID, foodID, orderID uuid.UUID, rating int, body string) (*review.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.CodeValidation, "rating must be between 1 and 5")
	}

	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.New(apperr.CodeOrderNotFound, "order not found")
	}
	if o.BuyerID != buyerID {
		return nil, apperr.New(apperr.CodeForbiddenOrderScope, "order does not belong to this buyer")
	}
	if o.Status != order.StatusCompleted {
		return nil, apperr.New(apperr.CodeOrderInvalidState, "reviews require a completed order")
	}

	exists, err := uc.Reviews.ExistsForOrder(ctx, buyerID, foodID, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.CodeReviewConflict, "a review already exists for this order and food")
	}

	r := &review.Review{
		ID:        idgen.NewID(),
		BuyerID:   buyerID,
		FoodID:    foodID,
		OrderID:   orderID,
		Rating:    rating,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Reviews.Create(ctx, r); err != nil {
		return nil, err
	}

	if err := uc.Foods.ApplyReviewDelta(ctx, foodID, float64(rating), 1); err != nil {
		uc.Log.Errorf("reviewsvc: failed to apply review delta for food %s: %v", foodID, err)
	}

	return r, nil
}

// ListReviews returns a cursor-paginated page of reviews for a food.
func (uc *UseCase) ListReviews(ctx context.Context, foodID uuid.UUID, cursorID string, limit int) ([]*review.Review, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.Reviews.ListByFood(ctx, foodID, cursorID, limit)
}

// Favorite adds a food to a buyer's favorites, bumping the food's
// favorite_count.
func (uc *UseCase) Favorite(ctx context.Context, buyerID, foodID uuid.UUID) error {
	if err := uc.Favorites.Add(ctx, &review.Favorite{
		ID:        idgen.NewID(),
		BuyerID:   buyerID,
		FoodID:    foodID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	return uc.Foods.ApplyFavoriteDelta(ctx, foodID, 1)
}

// Unfavorite removes a food from a buyer's favorites.
func (uc *UseCase) Unfavorite(ctx context.Context, buyerID, foodID uuid.UUID) error {
	if err := uc.Favorites.Remove(ctx, buyerID, foodID); err != nil {
		return err
	}
	return uc.Foods.ApplyFavoriteDelta(ctx, foodID, -1)
}

// ListFavorites returns a buyer's favorited foods.
func (uc *UseCase) ListFavorites(ctx context.Context, buyerID uuid.UUID) ([]*review.Favorite, error) {
	return uc.Favorites.ListByBuyer(ctx, buyerID)
}

// AddressInput is the create/update request contract for a user address.
type AddressInput struct {
	Label     string
	Line1     string
	Line2     string
	City      string
	Country   string
	Lat, Lng  *float64
	IsDefault bool
}

// AddAddress creates a new address, optionally promoting it to the user's
// default (enforcing the one-default-per-user partial-unique-index
// invariant via Addresses.SetDefault).
func (uc *UseCase) AddAddress(ctx context.Context, userID uuid.UUID, in AddressInput) (*review.Address, error) {
	now := time.Now().UTC()
	a := &review.Address{
		ID:        idgen.NewID(),
		UserID:    userID,
		Label:     in.Label,
		Line1:     in.Line1,
		Line2:     in.Line2,
		City:      in.City,
		Country:   in.Country,
		Lat:       in.Lat,
		Lng:       in.Lng,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	if in.IsDefault {
		if err := uc.Addresses.SetDefault(ctx, userID, a.ID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// SetDefaultAddress promotes an existing address to the user's default.
func (uc *UseCase) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return uc.Addresses.SetDefault(ctx, userID, addressID)
}

// ListAddresses returns every address owned by a user.
func (uc *UseCase) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*review.Address, error) {
	return uc.Addresses.ListByUser(ctx, userID)
}

// DeleteAddress removes an address owned by the user.
func (uc *UseCase) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	addrs, err := uc.Addresses.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if a.ID == addressID {
			return uc.Addresses.Delete(ctx, addressID)
		}
	}
	return apperr.New(apperr.CodeValidation, "address not found for this user")
}
