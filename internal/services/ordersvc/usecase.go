// Package ordersvc implements C8: order creation, the FEFO stock/lot
// allocation algorithm, the state-machine transitions an actor may drive,
// and the completion gate. Grounded on the teacher's services/command
// UseCase aggregator pattern; the allocation algorithm itself has no direct
// teacher analogue (the ledger domain has no perishable-inventory concept),
// so it is written from spec.md §4.6 steps 1-4 directly against the
// postgres.Connection.WithTx + repository "row-lock candidates, decrement
// in a loop" shape the teacher's transaction/operation domain uses for its
// own balance mutations.
package ordersvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/internal/domain/disclosure"
	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/money"
)

// transactor is satisfied by *postgres.Connection; narrowed to the one
// method this package calls so tests can run against an in-memory fake
// instead of a live pool.
type transactor interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type UseCase struct {
	Conn        transactor
	Orders      order.Repository
	Foods       catalog.FoodRepository
	Lots        lot.Repository
	Disclosures disclosure.Repository
	Delivery    delivery.Repository
	Finance     finance.Repository
	Outbox      *outboxsvc.UseCase
	Log         logging.Logger
}

// ItemInput is one requested line of CreateInput.
type ItemInput struct {
	FoodID   uuid.UUID
	Quantity int
}

type CreateInput struct {
	BuyerID         uuid.UUID
	SellerID        uuid.UUID
	DeliveryType    order.DeliveryType
	DeliveryAddress string
	Items           []ItemInput
}

// Create writes a draft order and immediately advances it to
// pending_seller_approval, snapshotting unit prices from the current food
// price (spec.md §4.6; idempotent replay is handled by idempotencysvc at
// the HTTP boundary, not here).
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*order.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.CodeValidation, "order must contain at least one item")
	}

	var created *order.Order

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		total := money.Zero
		items := make([]*order.Item, 0, len(in.Items))

		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return apperr.New(apperr.CodeLotInvalidQuantity, "quantity must be positive")
			}
			food, err := uc.Foods.FindByID(ctx, it.FoodID)
			if err != nil {
				return apperr.New(apperr.CodeFoodNotFound, "food not found")
			}
			unitPrice, err := money.NewAmount(food.Price)
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "invalid stored price", err)
			}
			lineTotal := unitPrice.MulInt(it.Quantity)
			total = total.Add(lineTotal)

			items = append(items, &order.Item{
				ID:        idgen.NewID(),
				FoodID:    it.FoodID,
				Quantity:  it.Quantity,
				UnitPrice: unitPrice.String(),
				CreatedAt: time.Now().UTC(),
			})
		}

		now := time.Now().UTC()
		o := &order.Order{
			ID:              idgen.NewID(),
			BuyerID:         in.BuyerID,
			SellerID:        in.SellerID,
			Status:          order.StatusPendingSellerApproval,
			DeliveryType:    in.DeliveryType,
			DeliveryAddress: in.DeliveryAddress,
			TotalPrice:      total.String(),
			OrderCode:       idgen.OrderCode(),
			ShortID:         idgen.ShortID(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uc.Orders.Create(ctx, o, items); err != nil {
			return err
		}

		if err := uc.Orders.AppendEvent(ctx, &order.Event{
			ID:        idgen.NewID(),
			OrderID:   o.ID,
			EventType: "order_created",
			ToStatus:  o.Status,
			ActorID:   &in.BuyerID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "order_created", "order", o.ID, o); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

