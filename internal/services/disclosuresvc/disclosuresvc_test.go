package disclosuresvc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/disclosure"
	"github.com/coziyoo/backend/internal/platform/logging"
)

type fakeRecords struct {
	byKey map[string]*disclosure.Record
}

func key(orderID uuid.UUID, phase disclosure.Phase) string {
	return orderID.String() + "/" + string(phase)
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{byKey: map[string]*disclosure.Record{}}
}

func (f *fakeRecords) Upsert(_ context.Context, r *disclosure.Record) error {
	f.byKey[key(r.OrderID, r.Phase)] = r
	return nil
}

func (f *fakeRecords) Find(_ context.Context, orderID uuid.UUID, phase disclosure.Phase) (*disclosure.Record, error) {
	r, ok := f.byKey[key(orderID, phase)]
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (f *fakeRecords) ExistsForBothPhases(_ context.Context, orderID uuid.UUID) (bool, error) {
	_, pre := f.byKey[key(orderID, disclosure.PhasePreOrder)]
	_, handover := f.byKey[key(orderID, disclosure.PhaseHandover)]
	return pre && handover, nil
}

func newTestUseCase() (*UseCase, *fakeRecords) {
	log, _ := logging.New("error", true)
	records := newFakeRecords()
	return &UseCase{Records: records, Log: log}, records
}

func TestRecord_UpsertReplacesPriorAttempt(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()
	orderID := uuid.New()
	recordedBy := uuid.New()

	first, err := uc.Record(ctx, orderID, recordedBy, disclosure.PhasePreOrder, []string{"peanuts"}, "checkbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"peanuts"}, first.Allergens)

	second, err := uc.Record(ctx, orderID, recordedBy, disclosure.PhasePreOrder, []string{"peanuts", "shellfish"}, "checkbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"peanuts", "shellfish"}, second.Allergens)

	got, err := uc.Get(ctx, orderID, disclosure.PhasePreOrder)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestRecord_BothPhasesIndependent(t *testing.T) {
	uc, repo := newTestUseCase()
	ctx := context.Background()
	orderID := uuid.New()

	_, err := uc.Record(ctx, orderID, uuid.New(), disclosure.PhasePreOrder, nil, "verbal")
	require.NoError(t, err)

	both, err := repo.ExistsForBothPhases(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, both)

	_, err = uc.Record(ctx, orderID, uuid.New(), disclosure.PhaseHandover, []string{"dairy"}, "photo")
	require.NoError(t, err)

	both, err = repo.ExistsForBothPhases(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, both)
}

func TestGet_MissingReturnsNilNoError(t *testing.T) {
	uc, _ := newTestUseCase()
	got, err := uc.Get(context.Background(), uuid.New(), disclosure.PhasePreOrder)
	require.NoError(t, err)
	assert.Nil(t, got)
}
