// Package financesvc implements C12's operator-facing surface: commission
// setting versioning, seller finance summaries, and reconciliation report
// generation. The per-order OrderFinance snapshot itself is written by
// ordersvc.Complete inside the order-completion transaction (spec.md
// §4.9); this package covers the operations that stand on their own.
package financesvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/platform/logging"
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
	Conn    transactor
	Finance finance.Repository
	Log     logging.Logger
}

// SetCommissionRate deactivates the currently active CommissionSetting and
// inserts a new active row, atomically (spec.md §4.9 "deactivate any
// active row, insert new row with is_active=true"). Past OrderFinance rows
// are never recomputed (P7).
func (uc *UseCase) SetCommissionRate(ctx context.Context, rate string, effectiveFrom time.Time) (*finance.CommissionSetting, error) {
	if _, err := money.NewRate(rate); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "invalid commission rate", err)
	}

	var result *finance.CommissionSetting

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		setting := &finance.CommissionSetting{
			ID:            idgen.NewID(),
			Rate:          rate,
			Active:        true,
			EffectiveFrom: effectiveFrom,
			CreatedAt:     time.Now().UTC(),
		}
		if err := uc.Finance.CreateCommissionSetting(ctx, setting); err != nil {
			return err
		}
		result = setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveRate returns the currently active commission setting (P7: exactly
// one such row exists at any instant).
func (uc *UseCase) ActiveRate(ctx context.Context) (*finance.CommissionSetting, error) {
	return uc.Finance.ActiveCommissionSetting(ctx)
}

// SellerSummary computes sum(gross)/sum(commission)/(sum(net)+sum(adjustments))
// for a seller (spec.md §4.9).
func (uc *UseCase) SellerSummary(ctx context.Context, sellerID uuid.UUID) (*finance.SellerSummary, error) {
	return uc.Finance.SellerSummary(ctx, sellerID)
}

// GenerateReport inserts a FinanceReconciliationReport row marked ready,
// storing the file URL and checksum the caller supplies; producing the
// report file itself happens outside this use case (spec.md §4.9).
func (uc *UseCase) GenerateReport(ctx context.Context, periodStart, periodEnd time.Time, fileURL, checksum string) (*finance.ReconciliationReport, error) {
	r := &finance.ReconciliationReport{
		ID:          idgen.NewID(),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      finance.ReportStatusReady,
		FileURL:     fileURL,
		Checksum:    checksum,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.Finance.CreateReport(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
