// Package order implements the Order/OrderItem/OrderEvent aggregate and the
// state machine from C8. Grounded on the teacher's domain entity+repository
// split; the transition table itself is data (see Transitions below) rather
// than code scattered across handlers, the way the teacher's mmodel.Status
// is a plain value object consulted by services rather than branching logic.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/pkg/apperr"
)

type Status string

const (
	StatusDraft                   Status = "draft"
	StatusPendingSellerApproval   Status = "pending_seller_approval"
	StatusSellerApproved          Status = "seller_approved"
	StatusAwaitingPayment         Status = "awaiting_payment"
	StatusPaid                    Status = "paid"
	StatusPreparing               Status = "preparing"
	StatusReady                   Status = "ready"
	StatusInDelivery              Status = "in_delivery"
	StatusDelivered               Status = "delivered"
	StatusRefundPending           Status = "refund_pending"
	StatusCompleted               Status = "completed"
	StatusRejected                Status = "rejected"
	StatusCancelled               Status = "cancelled"
	StatusRefunded                Status = "refunded"
	StatusRefundRejected          Status = "refund_rejected"
	StatusExpired                 Status = "expired"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// Transitions is the authoritative state machine from spec.md §4.6.
var Transitions = map[Status][]Status{
	StatusDraft:                 {StatusPendingSellerApproval},
	StatusPendingSellerApproval: {StatusSellerApproved, StatusRejected, StatusCancelled, StatusExpired},
	StatusSellerApproved:        {StatusAwaitingPayment, StatusCancelled},
	StatusAwaitingPayment:       {StatusPaid, StatusCancelled, StatusExpired},
	StatusPaid:                  {StatusPreparing, StatusCancelled, StatusRefundPending},
	StatusPreparing:             {StatusReady, StatusCancelled},
	StatusReady:                 {StatusInDelivery, StatusDelivered, StatusCancelled},
	StatusInDelivery:            {StatusDelivered, StatusCancelled},
	StatusDelivered:             {StatusCompleted, StatusRefundPending},
	StatusRefundPending:         {StatusRefunded, StatusRefundRejected},
}

var terminal = map[Status]bool{
	StatusCompleted:      true,
	StatusRejected:       true,
	StatusCancelled:      true,
	StatusRefunded:       true,
	StatusRefundRejected: true,
	StatusExpired:        true,
}

func IsTerminal(s Status) bool { return terminal[s] }

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to Status) bool {
	for _, t := range Transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// RequireTransition returns ORDER_INVALID_STATE if from -> to is not allowed.
func RequireTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return apperr.Newf(apperr.CodeOrderInvalidState, "cannot transition order from %s to %s", from, to)
	}
	return nil
}

type Order struct {
	ID               uuid.UUID
	BuyerID          uuid.UUID
	SellerID         uuid.UUID
	Status           Status
	DeliveryType     DeliveryType
	DeliveryAddress  string
	TotalPrice       string // Amount
	PaymentCompleted bool
	OrderCode        string
	ShortID          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ItemAllocationStatus string

type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	FoodID    uuid.UUID
	Quantity  int
	UnitPrice string // Amount
	CreatedAt time.Time
}

// Event is the append-only history of status transitions and domain events
// per order (spec.md §3).
type Event struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	FromStatus Status
	ToStatus   Status
	ActorID    *uuid.UUID
	Payload    map[string]any
	CreatedAt  time.Time
}

type Repository interface {
	Create(ctx context.Context, o *Order, items []*Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate row-locks the order, required before any status
	// transition so concurrent writers serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	Items(ctx context.Context, orderID uuid.UUID) ([]*Item, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, paymentCompleted *bool) error
	AppendEvent(ctx context.Context, e *Event) error
	Events(ctx context.Context, orderID uuid.UUID) ([]*Event, error)
	// ListExpiredPendingApproval/ListDeliveredPastAutoComplete support the
	// retention/auto-expiry sweeper (spec.md §4.6 "system drives").
	ListExpiredPendingApproval(ctx context.Context, cutoff time.Time) ([]*Order, error)
	ListDeliveredPastAutoComplete(ctx context.Context, cutoff time.Time) ([]*Order, error)
	// ListByBuyer/ListBySeller are cursor-paginated feeds (C14).
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursorID string, limit int) ([]*Order, bool, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, cursorID string, limit int) ([]*Order, bool, error)
}
