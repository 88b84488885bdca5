// Package disclosuresvc implements the allergen-disclosure half of C11:
// buyer pre_order records before payment confirmation and seller handover
// records before completion, unique per (order, phase) with upsert
// overwriting the latest attempt (spec.md §4.10).
package disclosuresvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/disclosure"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/idgen"
)

type UseCase struct {
	Records disclosure.Repository
	Log     logging.Logger
}

// Record upserts the disclosure for a phase, replacing any prior attempt.
func (uc *UseCase) Record(ctx context.Context, orderID, recordedBy uuid.UUID, phase disclosure.Phase, allergens []string, confirmationMethod string) (*disclosure.Record, error) {
	r := &disclosure.Record{
		ID:                 idgen.NewID(),
		OrderID:            orderID,
		Phase:              phase,
		Allergens:          allergens,
		ConfirmationMethod: confirmationMethod,
		RecordedBy:         recordedBy,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	if err := uc.Records.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the recorded disclosure for a phase, if any.
func (uc *UseCase) Get(ctx context.Context, orderID uuid.UUID, phase disclosure.Phase) (*disclosure.Record, error) {
	return uc.Records.Find(ctx, orderID, phase)
}
