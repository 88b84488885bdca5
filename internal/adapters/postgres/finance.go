package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/pkg/apperr"
)

// sumDecimalStrings adds two numeric(12,2)-shaped strings as they come back
// from SQL SUM(), falling back to "0" on a malformed value rather than
// panicking in a reporting path.
func sumDecimalStrings(a, b string) string {
	x, err := decimal.NewFromString(a)
	if err != nil {
		x = decimal.Zero
	}
	y, err := decimal.NewFromString(b)
	if err != nil {
		y = decimal.Zero
	}
	return x.Add(y).StringFixed(2)
}

// FinanceRepository is the Postgres-backed finance.Repository.
type FinanceRepository struct{ conn *Connection }

func NewFinanceRepository(conn *Connection) *FinanceRepository { return &FinanceRepository{conn: conn} }

func (r *FinanceRepository) CreateCommissionSetting(ctx context.Context, s *finance.CommissionSetting) error {
	return r.conn.WithTx(ctx, func(ctx context.Context) error {
		if s.Active {
			if _, err := r.conn.Q(ctx).Exec(ctx, `UPDATE commission_setting SET active = false WHERE active = true`); err != nil {
				return err
			}
		}
		_, err := r.conn.Q(ctx).Exec(ctx,
			`INSERT INTO commission_setting (id, rate, active, effective_from, created_at) VALUES ($1,$2,$3,$4,$5)`,
			s.ID, s.Rate, s.Active, s.EffectiveFrom, s.CreatedAt)
		return err
	})
}

func (r *FinanceRepository) ActiveCommissionSetting(ctx context.Context) (*finance.CommissionSetting, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT id, rate, active, effective_from, created_at FROM commission_setting WHERE active = true LIMIT 1`)
	s := &finance.CommissionSetting{}
	err := row.Scan(&s.ID, &s.Rate, &s.Active, &s.EffectiveFrom, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "no active commission setting")
		}
		return nil, err
	}
	return s, nil
}

func (r *FinanceRepository) CreateOrderFinance(ctx context.Context, f *finance.OrderFinance) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO order_finance (id, order_id, gross, commission_rate_snapshot, commission_amount, seller_net_amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (order_id) DO NOTHING`,
		f.ID, f.OrderID, f.Gross, f.CommissionRateSnapshot, f.CommissionAmount, f.SellerNetAmount, f.CreatedAt)
	return err
}

func (r *FinanceRepository) FindOrderFinanceByOrderID(ctx context.Context, orderID uuid.UUID) (*finance.OrderFinance, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, order_id, gross, commission_rate_snapshot, commission_amount, seller_net_amount, created_at
		FROM order_finance WHERE order_id = $1`, orderID)
	f := &finance.OrderFinance{}
	err := row.Scan(&f.ID, &f.OrderID, &f.Gross, &f.CommissionRateSnapshot, &f.CommissionAmount, &f.SellerNetAmount, &f.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "order finance not found")
		}
		return nil, err
	}
	return f, nil
}

func (r *FinanceRepository) CreateAdjustment(ctx context.Context, a *finance.Adjustment) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO finance_adjustment (id, seller_id, order_id, dispute_id, reason, amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.SellerID, a.OrderID, a.DisputeID, a.Reason, a.Amount, a.CreatedAt)
	return err
}

func (r *FinanceRepository) SellerSummary(ctx context.Context, sellerID uuid.UUID) (*finance.SellerSummary, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(of.gross) FROM order_finance of
				JOIN "order" o ON o.id = of.order_id WHERE o.seller_id = $1), 0) AS gross_total,
			COALESCE((SELECT SUM(of.commission_amount) FROM order_finance of
				JOIN "order" o ON o.id = of.order_id WHERE o.seller_id = $1), 0) AS commission_total,
			COALESCE((SELECT SUM(of.seller_net_amount) FROM order_finance of
				JOIN "order" o ON o.id = of.order_id WHERE o.seller_id = $1), 0) AS net_total,
			COALESCE((SELECT SUM(fa.amount) FROM finance_adjustment fa WHERE fa.seller_id = $1), 0) AS adjustments_total
		`, sellerID)

	s := &finance.SellerSummary{SellerID: sellerID}
	if err := row.Scan(&s.GrossTotal, &s.CommissionTotal, &s.NetTotal, &s.AdjustmentsTotal); err != nil {
		return nil, err
	}
	s.PayableTotal = sumDecimalStrings(s.NetTotal, s.AdjustmentsTotal)
	return s, nil
}

func (r *FinanceRepository) CreateReport(ctx context.Context, rep *finance.ReconciliationReport) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO reconciliation_report (id, period_start, period_end, status, file_url, checksum, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rep.ID, rep.PeriodStart, rep.PeriodEnd, rep.Status, rep.FileURL, rep.Checksum, rep.CreatedAt)
	return err
}
