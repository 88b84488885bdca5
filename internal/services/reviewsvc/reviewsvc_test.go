package reviewsvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/domain/review"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeOrders struct {
	byID map[uuid.UUID]*order.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[uuid.UUID]*order.Order{}} }

func (f *fakeOrders) Create(context.Context, *order.Order, []*order.Item) error { return nil }
func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.CodeOrderNotFound, "not found")
	}
	return o, nil
}
func (f *fakeOrders) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return f.FindByID(ctx, id)
}
func (f *fakeOrders) Items(context.Context, uuid.UUID) ([]*order.Item, error) { return nil, nil }
func (f *fakeOrders) UpdateStatus(context.Context, uuid.UUID, order.Status, *bool) error {
	return nil
}
func (f *fakeOrders) AppendEvent(context.Context, *order.Event) error           { return nil }
func (f *fakeOrders) Events(context.Context, uuid.UUID) ([]*order.Event, error) { return nil, nil }
func (f *fakeOrders) ListExpiredPendingApproval(context.Context, time.Time) ([]*order.Order, error) {
	return nil, nil
}
func (f *fakeOrders) ListDeliveredPastAutoComplete(context.Context, time.Time) ([]*order.Order, error) {
	return nil, nil
}
func (f *fakeOrders) ListByBuyer(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}
func (f *fakeOrders) ListBySeller(context.Context, uuid.UUID, string, int) ([]*order.Order, bool, error) {
	return nil, false, nil
}

type fakeReviews struct {
	created []*review.Review
	exists  bool
}

func (f *fakeReviews) Create(_ context.Context, r *review.Review) error {
	f.created = append(f.created, r)
	return nil
}
func (f *fakeReviews) ExistsForOrder(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (bool, error) {
	return f.exists, nil
}
func (f *fakeReviews) ListByFood(context.Context, uuid.UUID, string, int) ([]*review.Review, bool, error) {
	return nil, false, nil
}

type fakeFavorites struct {
	added   []*review.Favorite
	removed bool
}

func (f *fakeFavorites) Add(_ context.Context, fav *review.Favorite) error {
	f.added = append(f.added, fav)
	return nil
}
func (f *fakeFavorites) Remove(context.Context, uuid.UUID, uuid.UUID) error {
	f.removed = true
	return nil
}
func (f *fakeFavorites) ListByBuyer(context.Context, uuid.UUID) ([]*review.Favorite, error) {
	return nil, nil
}

type fakeAddresses struct {
	byID    map[uuid.UUID]*review.Address
	byUser  map[uuid.UUID][]*review.Address
	default_ uuid.UUID
}

func newFakeAddresses() *fakeAddresses {
	return &fakeAddresses{byID: map[uuid.UUID]*review.Address{}, byUser: map[uuid.UUID][]*review.Address{}}
}
func (f *fakeAddresses) Create(_ context.Context, a *review.Address) error {
	f.byID[a.ID] = a
	f.byUser[a.UserID] = append(f.byUser[a.UserID], a)
	return nil
}
func (f *fakeAddresses) Update(context.Context, *review.Address) error { return nil }
func (f *fakeAddresses) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}
func (f *fakeAddresses) ListByUser(_ context.Context, userID uuid.UUID) ([]*review.Address, error) {
	return f.byUser[userID], nil
}
func (f *fakeAddresses) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	for _, a := range f.byUser[userID] {
		a.IsDefault = a.ID == id
	}
	f.default_ = id
	return nil
}

type fakeFoods struct {
	reviewDeltas   int
	favoriteDeltas int
}

func (f *fakeFoods) Create(context.Context, *catalog.Food) error { return nil }
func (f *fakeFoods) Update(context.Context, *catalog.Food) error { return nil }
func (f *fakeFoods) Delete(context.Context, uuid.UUID) error     { return nil }
func (f *fakeFoods) List(context.Context, catalog.FoodListFilter, int, int, string, string) ([]*catalog.Food, int, error) {
	return nil, 0, nil
}
func (f *fakeFoods) FindByID(context.Context, uuid.UUID) (*catalog.Food, error) {
	return nil, nil
}
func (f *fakeFoods) FindByIDForUpdate(context.Context, uuid.UUID) (*catalog.Food, error) {
	return nil, nil
}
func (f *fakeFoods) ListBySeller(context.Context, uuid.UUID) ([]*catalog.Food, error) {
	return nil, nil
}
func (f *fakeFoods) RecomputeCurrentStock(context.Context, uuid.UUID) error { return nil }
func (f *fakeFoods) ApplyReviewDelta(_ context.Context, _ uuid.UUID, _ float64, delta int) error {
	f.reviewDeltas += delta
	return nil
}
func (f *fakeFoods) ApplyFavoriteDelta(_ context.Context, _ uuid.UUID, delta int) error {
	f.favoriteDeltas += delta
	return nil
}

func newTestUseCase() (*UseCase, *fakeOrders, *fakeReviews, *fakeFavorites, *fakeAddresses, *fakeFoods) {
	log, _ := logging.New("error", true)
	orders := newFakeOrders()
	reviews := &fakeReviews{}
	favorites := &fakeFavorites{}
	addresses := newFakeAddresses()
	foods := &fakeFoods{}
	return &UseCase{
		Reviews:   reviews,
		Favorites: favorites,
		Addresses: addresses,
		Orders:    orders,
		Foods:     foods,
		Log:       log,
	}, orders, reviews, favorites, addresses, foods
}

func TestCreateReview_HappyPath(t *testing.T) {
	uc, orders, reviews, _, _, foods := newTestUseCase()
	buyerID, foodID := uuid.New(), uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, Status: order.StatusCompleted}
	orders.byID[o.ID] = o

	r, err := uc.CreateReview(context.Background(), buyerID, foodID, o.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	require.Len(t, reviews.created, 1)
	assert.Equal(t, 1, foods.reviewDeltas)
}

func TestCreateReview_InvalidRatingRejected(t *testing.T) {
	uc, _, _, _, _, _ := newTestUseCase()
	_, err := uc.CreateReview(context.Background(), uuid.New(), uuid.New(), uuid.New(), 0, "bad")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestCreateReview_WrongBuyerForbidden(t *testing.T) {
	uc, orders, _, _, _, _ := newTestUseCase()
	o := &order.Order{ID: uuid.New(), BuyerID: uuid.New(), Status: order.StatusCompleted}
	orders.byID[o.ID] = o

	_, err := uc.CreateReview(context.Background(), uuid.New(), uuid.New(), o.ID, 4, "x")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForbiddenOrderScope, appErr.Code)
}

func TestCreateReview_NotCompletedRejected(t *testing.T) {
	uc, orders, _, _, _, _ := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, Status: order.StatusDelivered}
	orders.byID[o.ID] = o

	_, err := uc.CreateReview(context.Background(), buyerID, uuid.New(), o.ID, 4, "x")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOrderInvalidState, appErr.Code)
}

func TestCreateReview_DuplicateRejected(t *testing.T) {
	uc, orders, reviews, _, _, _ := newTestUseCase()
	buyerID := uuid.New()
	o := &order.Order{ID: uuid.New(), BuyerID: buyerID, Status: order.StatusCompleted}
	orders.byID[o.ID] = o
	reviews.exists = true

	_, err := uc.CreateReview(context.Background(), buyerID, uuid.New(), o.ID, 4, "x")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeReviewConflict, appErr.Code)
}

func TestFavoriteAndUnfavorite_AdjustCounters(t *testing.T) {
	uc, _, _, favorites, _, foods := newTestUseCase()
	buyerID, foodID := uuid.New(), uuid.New()

	require.NoError(t, uc.Favorite(context.Background(), buyerID, foodID))
	assert.Equal(t, 1, foods.favoriteDeltas)
	require.Len(t, favorites.added, 1)

	require.NoError(t, uc.Unfavorite(context.Background(), buyerID, foodID))
	assert.Equal(t, 0, foods.favoriteDeltas)
	assert.True(t, favorites.removed)
}

func TestAddAddress_PromotesDefault(t *testing.T) {
	uc, _, _, _, addresses, _ := newTestUseCase()
	userID := uuid.New()

	a, err := uc.AddAddress(context.Background(), userID, AddressInput{Label: "home", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, a.ID, addresses.default_)
}

func TestDeleteAddress_NotOwnedRejected(t *testing.T) {
	uc, _, _, _, addresses, _ := newTestUseCase()
	userID := uuid.New()
	other := &review.Address{ID: uuid.New(), UserID: uuid.New()}
	addresses.byID[other.ID] = other
	addresses.byUser[other.UserID] = []*review.Address{other}

	err := uc.DeleteAddress(context.Background(), userID, other.ID)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}
