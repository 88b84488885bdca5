package auditsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/platform/logging"
)

type fakeAuditRepo struct {
	byEntity map[uuid.UUID][]*audit.Log
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{byEntity: map[uuid.UUID][]*audit.Log{}}
}

func (f *fakeAuditRepo) Append(_ context.Context, l *audit.Log) error {
	f.byEntity[l.EntityID] = append(f.byEntity[l.EntityID], l)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, _ string, entityID uuid.UUID) ([]*audit.Log, error) {
	return f.byEntity[entityID], nil
}

type fakeMirror struct {
	calls int
	err   error
}

func (f *fakeMirror) Append(_ context.Context, _ *audit.Log) error {
	f.calls++
	return f.err
}

func newTestUseCase() (*UseCase, *fakeAuditRepo, *fakeMirror) {
	log, _ := logging.New("error", true)
	repo := newFakeAuditRepo()
	mirror := &fakeMirror{}
	return &UseCase{Repo: repo, Mirror: mirror, Log: log}, repo, mirror
}

func TestListByEntity(t *testing.T) {
	uc, repo, _ := newTestUseCase()
	entityID := uuid.New()
	repo.byEntity[entityID] = []*audit.Log{{ID: uuid.New(), EntityID: entityID, Action: "review"}}

	logs, err := uc.ListByEntity(context.Background(), "seller_compliance_profile", entityID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMirrored_Success(t *testing.T) {
	uc, _, mirror := newTestUseCase()
	uc.Mirrored(context.Background(), &audit.Log{ID: uuid.New(), CreatedAt: time.Now()})
	assert.Equal(t, 1, mirror.calls)
}

func TestMirrored_FailureIsSwallowed(t *testing.T) {
	uc, _, mirror := newTestUseCase()
	mirror.err = errors.New("mongo unavailable")

	// a mirror failure must never panic or propagate; it is logged and dropped.
	assert.NotPanics(t, func() {
		uc.Mirrored(context.Background(), &audit.Log{ID: uuid.New()})
	})
	assert.Equal(t, 1, mirror.calls)
}

func TestMirrored_NilMirrorIsNoop(t *testing.T) {
	log, _ := logging.New("error", true)
	uc := &UseCase{Repo: newFakeAuditRepo(), Mirror: nil, Log: log}
	assert.NotPanics(t, func() {
		uc.Mirrored(context.Background(), &audit.Log{ID: uuid.New()})
	})
}
