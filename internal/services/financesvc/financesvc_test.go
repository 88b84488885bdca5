package financesvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/finance"
	"github.com/coziyoo/backend/internal/platform/logging"
)

type fakeConn struct{}

func (fakeConn) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeFinance struct {
	settings []*finance.CommissionSetting
	active   *finance.CommissionSetting
	summary  *finance.SellerSummary
	reports  []*finance.ReconciliationReport
}

func (f *fakeFinance) CreateCommissionSetting(_ context.Context, s *finance.CommissionSetting) error {
	if f.active != nil {
		f.active.Active = false
	}
	f.settings = append(f.settings, s)
	f.active = s
	return nil
}
func (f *fakeFinance) ActiveCommissionSetting(context.Context) (*finance.CommissionSetting, error) {
	return f.active, nil
}
func (f *fakeFinance) CreateOrderFinance(context.Context, *finance.OrderFinance) error { return nil }
func (f *fakeFinance) FindOrderFinanceByOrderID(context.Context, uuid.UUID) (*finance.OrderFinance, error) {
	return nil, nil
}
func (f *fakeFinance) CreateAdjustment(context.Context, *finance.Adjustment) error { return nil }
func (f *fakeFinance) SellerSummary(context.Context, uuid.UUID) (*finance.SellerSummary, error) {
	return f.summary, nil
}
func (f *fakeFinance) CreateReport(_ context.Context, r *finance.ReconciliationReport) error {
	f.reports = append(f.reports, r)
	return nil
}

func newTestUseCase() (*UseCase, *fakeFinance) {
	log, _ := logging.New("error", true)
	fin := &fakeFinance{}
	return &UseCase{Conn: fakeConn{}, Finance: fin, Log: log}, fin
}

func TestSetCommissionRate_DeactivatesPriorActive(t *testing.T) {
	uc, fin := newTestUseCase()
	ctx := context.Background()

	first, err := uc.SetCommissionRate(ctx, "0.1000", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := uc.SetCommissionRate(ctx, "0.1500", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, second.Active)
	assert.False(t, first.Active, "the prior setting must be deactivated when a new one is created")

	active, err := uc.ActiveRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestSetCommissionRate_InvalidRateRejected(t *testing.T) {
	uc, fin := newTestUseCase()
	_, err := uc.SetCommissionRate(context.Background(), "not-a-number", time.Now())
	require.Error(t, err)
	assert.Empty(t, fin.settings)
}

func TestSellerSummary_Passthrough(t *testing.T) {
	uc, fin := newTestUseCase()
	sellerID := uuid.New()
	fin.summary = &finance.SellerSummary{SellerID: sellerID, GrossTotal: "100.00"}

	got, err := uc.SellerSummary(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.GrossTotal)
}

func TestGenerateReport_CreatesReadyReport(t *testing.T) {
	uc, fin := newTestUseCase()
	start := time.Now().UTC().AddDate(0, -1, 0)
	end := time.Now().UTC()

	r, err := uc.GenerateReport(context.Background(), start, end, "https://files/example.csv", "abc123")
	require.NoError(t, err)
	assert.Equal(t, finance.ReportStatusReady, r.Status)
	require.Len(t, fin.reports, 1)
	assert.Equal(t, "abc123", fin.reports[0].Checksum)
}
