package abusesvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/abuse"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeLimiter struct {
	allow map[string]bool
	err   error
	calls []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ time.Duration, _ int) (bool, error) {
	f.calls = append(f.calls, key)
	if f.err != nil {
		return false, f.err
	}
	if f.allow == nil {
		return true, nil
	}
	allowed, ok := f.allow[key]
	if !ok {
		return true, nil
	}
	return allowed, nil
}

type fakeAbuseRepo struct{ events []*abuse.RiskEvent }

func (f *fakeAbuseRepo) AppendRiskEvent(_ context.Context, e *abuse.RiskEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newTestUseCase(limiter *fakeLimiter) (*UseCase, *fakeAbuseRepo) {
	log, _ := logging.New("error", true)
	repo := &fakeAbuseRepo{}
	return &UseCase{
		Limiter:  limiter,
		Repo:     repo,
		Policies: DefaultPolicies,
		Log:      log,
	}, repo
}

func TestCheck_AllowedLogsDecision(t *testing.T) {
	uc, repo := newTestUseCase(&fakeLimiter{})
	subject := uuid.New()

	err := uc.Check(context.Background(), abuse.FlowLogin, "1.2.3.4", &subject)
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	assert.Equal(t, abuse.DecisionAllowed, repo.events[0].Decision)
}

func TestCheck_DeniedByIPWindow(t *testing.T) {
	limiter := &fakeLimiter{allow: map[string]bool{}}
	uc, repo := newTestUseCase(limiter)
	subject := uuid.New()
	limiter.allow[string(abuse.FlowLogin)+":ip:9.9.9.9"] = false

	err := uc.Check(context.Background(), abuse.FlowLogin, "9.9.9.9", &subject)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeRateLimited, appErr.Code)
	require.Len(t, repo.events, 1)
	assert.Equal(t, abuse.DecisionDenied, repo.events[0].Decision)
}

func TestCheck_HighRiskFlowFailsClosedOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	uc, repo := newTestUseCase(limiter)
	subject := uuid.New()

	err := uc.Check(context.Background(), abuse.FlowOrderCreate, "1.1.1.1", &subject)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeRateLimited, appErr.Code)
	require.Len(t, repo.events, 1)
	assert.Equal(t, abuse.DecisionDenied, repo.events[0].Decision)
}

func TestCheck_LowRiskFlowFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	uc, _ := newTestUseCase(limiter)
	subject := uuid.New()

	err := uc.Check(context.Background(), abuse.FlowLogin, "1.1.1.1", &subject)
	require.NoError(t, err)
}

func TestCheck_UnknownFlowUsesDefaultPolicy(t *testing.T) {
	uc, repo := newTestUseCase(&fakeLimiter{})
	err := uc.Check(context.Background(), abuse.Flow("unknown_flow"), "1.1.1.1", nil)
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
}
