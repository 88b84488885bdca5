package compliancesvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/internal/domain/outbox"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeConn struct{}

func (fakeConn) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeProfiles struct {
	bySeller map[uuid.UUID]*compliance.Profile
	byID     map[uuid.UUID]*compliance.Profile
	checks   map[uuid.UUID][]*compliance.Check
	events   map[uuid.UUID][]*compliance.Event
	required bool
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		bySeller: map[uuid.UUID]*compliance.Profile{},
		byID:     map[uuid.UUID]*compliance.Profile{},
		checks:   map[uuid.UUID][]*compliance.Check{},
		events:   map[uuid.UUID][]*compliance.Event{},
	}
}

func (f *fakeProfiles) Create(_ context.Context, p *compliance.Profile) error {
	f.bySeller[p.SellerID] = p
	f.byID[p.ID] = p
	return nil
}
func (f *fakeProfiles) FindBySellerID(_ context.Context, sellerID uuid.UUID) (*compliance.Profile, error) {
	p, ok := f.bySeller[sellerID]
	if !ok {
		return nil, apperr.New(apperr.CodeComplianceProfileMissing, "not found")
	}
	return p, nil
}
func (f *fakeProfiles) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*compliance.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.CodeComplianceProfileMissing, "not found")
	}
	return p, nil
}
func (f *fakeProfiles) UpdateStatus(_ context.Context, id uuid.UUID, status compliance.ProfileStatus) error {
	if p, ok := f.byID[id]; ok {
		p.Status = status
	}
	return nil
}
func (f *fakeProfiles) AddDocument(context.Context, *compliance.Document) error { return nil }
func (f *fakeProfiles) UpsertCheck(_ context.Context, c *compliance.Check) error {
	f.checks[c.ProfileID] = append(f.checks[c.ProfileID], c)
	return nil
}
func (f *fakeProfiles) Checks(_ context.Context, profileID uuid.UUID) ([]*compliance.Check, error) {
	return f.checks[profileID], nil
}
func (f *fakeProfiles) RequiredChecksVerified(context.Context, uuid.UUID) (bool, error) {
	return f.required, nil
}
func (f *fakeProfiles) AppendEvent(_ context.Context, e *compliance.Event) error {
	f.events[e.ProfileID] = append(f.events[e.ProfileID], e)
	return nil
}
func (f *fakeProfiles) Events(_ context.Context, profileID uuid.UUID) ([]*compliance.Event, error) {
	return f.events[profileID], nil
}

type fakeAudit struct{ logs []*audit.Log }

func (f *fakeAudit) Append(_ context.Context, l *audit.Log) error {
	f.logs = append(f.logs, l)
	return nil
}
func (f *fakeAudit) ListByEntity(context.Context, string, uuid.UUID) ([]*audit.Log, error) {
	return nil, nil
}

type fakeOutboxRepo struct{ events []outbox.NewEvent }

func (f *fakeOutboxRepo) Enqueue(_ context.Context, e outbox.NewEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutboxRepo) ClaimBatch(context.Context, int) ([]*outbox.Event, error) { return nil, nil }
func (f *fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error           { return nil }
func (f *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, time.Time, string) error {
	return nil
}
func (f *fakeOutboxRepo) MoveToDeadLetter(context.Context, uuid.UUID, string) error { return nil }

func newTestUseCase() (*UseCase, *fakeProfiles, *fakeAudit, *fakeOutboxRepo) {
	log, _ := logging.New("error", true)
	profiles := newFakeProfiles()
	aud := &fakeAudit{}
	outboxRepo := &fakeOutboxRepo{}
	outboxSvc := &outboxsvc.UseCase{Repo: outboxRepo, MaxAttempts: 5, Log: log}
	return &UseCase{Conn: fakeConn{}, Profiles: profiles, Audit: aud, Outbox: outboxSvc, Log: log}, profiles, aud, outboxRepo
}

func TestEnsureProfile_CreatesOnFirstAccess(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	sellerID := uuid.New()

	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	assert.Equal(t, compliance.ProfileNotStarted, p.Status)

	again, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID, "second call must return the same profile, not create a new one")
}

func TestUpsertCheck_MovesNotStartedToInProgress(t *testing.T) {
	uc, profiles, _, _ := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)

	err = uc.UpsertCheck(context.Background(), p.ID, sellerID, "id_verification", true, compliance.CheckVerified)
	require.NoError(t, err)

	assert.Equal(t, compliance.ProfileInProgress, profiles.byID[p.ID].Status)
	assert.Len(t, profiles.checks[p.ID], 1)
}

func TestSubmit_RequiresAllChecksVerified(t *testing.T) {
	uc, profiles, _, _ := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	require.NoError(t, uc.UpsertCheck(context.Background(), p.ID, sellerID, "id", true, compliance.CheckPending))

	profiles.required = false
	_, err = uc.Submit(context.Background(), p.ID, nil)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeComplianceChecksMissing, appErr.Code)
}

func TestSubmit_Success(t *testing.T) {
	uc, profiles, _, outboxRepo := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	require.NoError(t, uc.UpsertCheck(context.Background(), p.ID, sellerID, "id", true, compliance.CheckVerified))
	profiles.required = true

	result, err := uc.Submit(context.Background(), p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, compliance.ProfileUnderReview, result.Status)

	events := profiles.events[p.ID]
	require.Len(t, events, 3, "upsert-check event + submitted + under_review")
	assert.Equal(t, "profile_submitted", events[1].EventType)
	assert.Equal(t, "profile_under_review", events[2].EventType)
	require.Len(t, outboxRepo.events, 1)
	assert.Equal(t, "compliance_status_changed", outboxRepo.events[0].EventType)
}

func TestSubmit_WrongStatusRejected(t *testing.T) {
	uc, profiles, _, _ := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	profiles.byID[p.ID].Status = compliance.ProfileApproved

	_, err = uc.Submit(context.Background(), p.ID, nil)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeComplianceProfileReq, appErr.Code)
}

func TestReview_ApproveFromUnderReview(t *testing.T) {
	uc, profiles, aud, outboxRepo := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	profiles.byID[p.ID].Status = compliance.ProfileUnderReview

	adminID := uuid.New()
	result, err := uc.Review(context.Background(), p.ID, adminID, ActionApprove, "looks good")
	require.NoError(t, err)
	assert.Equal(t, compliance.ProfileApproved, result.Status)
	require.Len(t, aud.logs, 1)
	assert.Equal(t, adminID, aud.logs[0].ActorID)
	require.Len(t, outboxRepo.events, 1)
}

func TestReview_UnknownActionRejected(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	_, err := uc.Review(context.Background(), uuid.New(), uuid.New(), ReviewAction("bogus"), "")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestReview_NotUnderReviewRejected(t *testing.T) {
	uc, profiles, _, _ := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	// status is not_started, not under_review

	_, err = uc.Review(context.Background(), p.ID, uuid.New(), ActionApprove, "")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeComplianceProfileReq, appErr.Code)
}

func TestSuspend(t *testing.T) {
	uc, profiles, aud, _ := newTestUseCase()
	sellerID := uuid.New()
	p, err := uc.EnsureProfile(context.Background(), sellerID, "US")
	require.NoError(t, err)
	profiles.byID[p.ID].Status = compliance.ProfileApproved

	result, err := uc.Suspend(context.Background(), p.ID, uuid.New(), "regulatory hold")
	require.NoError(t, err)
	assert.Equal(t, compliance.ProfileSuspended, result.Status)
	require.Len(t, aud.logs, 1)
}

func TestOperationalGate(t *testing.T) {
	approved := &compliance.Profile{Status: compliance.ProfileApproved}
	inProgress := &compliance.Profile{Status: compliance.ProfileInProgress}

	assert.NoError(t, OperationalGate("UK", approved, false))
	err := OperationalGate("UK", inProgress, true)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeComplianceProfileReq, appErr.Code)

	assert.NoError(t, OperationalGate("TR", inProgress, true))
	err = OperationalGate("TR", inProgress, false)
	require.Error(t, err)
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeComplianceChecksMissing, appErr.Code)

	assert.NoError(t, OperationalGate("US", inProgress, false), "countries without a named gate pass through")
}
