// Package lot implements the ProductionLot side of C8: FEFO allocation,
// recall, and discard. Grounded on the teacher's domain entity+repository
// split; the FEFO ordering and row-locking live in the Postgres adapter's
// CandidateLotsForUpdate query, driven by ordersvc since allocation spans
// both the order and lot aggregates in one transaction.
package lot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusLocked   Status = "locked"
	StatusDepleted Status = "depleted"
	StatusRecalled Status = "recalled"
	StatusDiscarded Status = "discarded"
)

// ProductionLot tracks a specific production run of a Food. Invariant:
// 0 <= QuantityAvailable <= QuantityProduced; recalled/discarded lots never
// allocate (enforced by CandidateLotsForUpdate's status filter, not by this
// type).
type ProductionLot struct {
	ID                uuid.UUID
	SellerID          uuid.UUID
	FoodID            uuid.UUID
	LotNumber         string
	ProducedAt        time.Time
	UseBy             *time.Time
	BestBefore        *time.Time
	QuantityProduced  int
	QuantityAvailable int
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItemLotAllocation records how much of an order item was drawn from a
// specific lot, written by the FEFO allocation algorithm.
type OrderItemLotAllocation struct {
	ID          uuid.UUID
	OrderItemID uuid.UUID
	LotID       uuid.UUID
	Quantity    int
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, l *ProductionLot) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionLot, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*ProductionLot, error)
	// CandidateLotsForUpdate row-locks open lots with stock for a food,
	// ordered per the FEFO tie-break in spec.md §4.6 step 1:
	// coalesce(use_by, best_before, produced_at) ASC, created_at ASC.
	CandidateLotsForUpdate(ctx context.Context, sellerID, foodID uuid.UUID) ([]*ProductionLot, error)
	// DecrementAvailable subtracts qty from a lot's quantity_available,
	// flipping status to depleted when it reaches zero.
	DecrementAvailable(ctx context.Context, lotID uuid.UUID, qty int) error
	CreateAllocation(ctx context.Context, a *OrderItemLotAllocation) error
	Recall(ctx context.Context, lotID uuid.UUID) error
	Discard(ctx context.Context, lotID uuid.UUID) error
	Adjust(ctx context.Context, lotID uuid.UUID, quantityAvailable int, status Status) error
}
