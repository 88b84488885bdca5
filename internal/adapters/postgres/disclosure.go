package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/disclosure"
	"github.com/coziyoo/backend/pkg/apperr"
)

// DisclosureRepository is the Postgres-backed disclosure.Repository.
type DisclosureRepository struct{ conn *Connection }

func NewDisclosureRepository(conn *Connection) *DisclosureRepository {
	return &DisclosureRepository{conn: conn}
}

func (r *DisclosureRepository) Upsert(ctx context.Context, rec *disclosure.Record) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO allergen_disclosure_record (id, order_id, phase, allergens, confirmation_method, recorded_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (order_id, phase) DO UPDATE SET
			allergens = EXCLUDED.allergens,
			confirmation_method = EXCLUDED.confirmation_method,
			recorded_by = EXCLUDED.recorded_by,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.OrderID, rec.Phase, rec.Allergens, rec.ConfirmationMethod, rec.RecordedBy, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *DisclosureRepository) Find(ctx context.Context, orderID uuid.UUID, phase disclosure.Phase) (*disclosure.Record, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, order_id, phase, allergens, confirmation_method, recorded_by, created_at, updated_at
		FROM allergen_disclosure_record WHERE order_id = $1 AND phase = $2`, orderID, phase)
	rec := &disclosure.Record{}
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.Phase, &rec.Allergens, &rec.ConfirmationMethod, &rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "disclosure record not found")
		}
		return nil, err
	}
	return rec, nil
}

func (r *DisclosureRepository) ExistsForBothPhases(ctx context.Context, orderID uuid.UUID) (bool, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT COUNT(DISTINCT phase) = 2 FROM allergen_disclosure_record WHERE order_id = $1`, orderID)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}
