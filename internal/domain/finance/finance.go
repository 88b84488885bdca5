// Package finance implements C12: commission settings, per-order finance
// snapshots, adjustments, and reconciliation reports. Grounded on the
// teacher's entity+repository split; money fields are string-encoded
// Amount/Rate values (see pkg/money) at the persistence boundary.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommissionSetting is versioned: exactly one row has Active=true at any
// moment, and rows are never mutated after creation (spec.md §4.9).
type CommissionSetting struct {
	ID            uuid.UUID
	Rate          string // Rate, numeric(5,4)
	Active        bool
	EffectiveFrom time.Time
	CreatedAt     time.Time
}

// OrderFinance is one immutable row per completed order.
type OrderFinance struct {
	ID                     uuid.UUID
	OrderID                uuid.UUID
	Gross                  string // Amount
	CommissionRateSnapshot string // Rate
	CommissionAmount       string // Amount
	SellerNetAmount        string // Amount
	CreatedAt              time.Time
}

type AdjustmentReason string

const (
	AdjustmentReasonRefund      AdjustmentReason = "refund"
	AdjustmentReasonDispute     AdjustmentReason = "dispute"
	AdjustmentReasonManual      AdjustmentReason = "manual"
)

// Adjustment is an append-only delta applied to a seller's finance summary.
type Adjustment struct {
	ID         uuid.UUID
	SellerID   uuid.UUID
	OrderID    uuid.UUID
	DisputeID  *uuid.UUID
	Reason     AdjustmentReason
	Amount     string // Amount, signed
	CreatedAt  time.Time
}

type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusReady   ReportStatus = "ready"
	ReportStatusFailed  ReportStatus = "failed"
)

type ReconciliationReport struct {
	ID          uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      ReportStatus
	FileURL     string
	Checksum    string
	CreatedAt   time.Time
}

// SellerSummary is the computed sum(gross)/sum(commission)/(sum(net)+sum(adjustments))
// view from spec.md §4.9.
type SellerSummary struct {
	SellerID         uuid.UUID
	GrossTotal       string
	CommissionTotal  string
	NetTotal         string
	AdjustmentsTotal string
	PayableTotal     string
}

type Repository interface {
	CreateCommissionSetting(ctx context.Context, s *CommissionSetting) error
	ActiveCommissionSetting(ctx context.Context) (*CommissionSetting, error)

	// CreateOrderFinance is idempotent: a second call for the same OrderID
	// is a no-op (unique constraint on order_id, spec.md §4.9).
	CreateOrderFinance(ctx context.Context, f *OrderFinance) error
	FindOrderFinanceByOrderID(ctx context.Context, orderID uuid.UUID) (*OrderFinance, error)

	CreateAdjustment(ctx context.Context, a *Adjustment) error

	SellerSummary(ctx context.Context, sellerID uuid.UUID) (*SellerSummary, error)

	CreateReport(ctx context.Context, r *ReconciliationReport) error
}
