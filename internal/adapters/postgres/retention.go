package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/retention"
)

// RetentionRepository is the Postgres-backed retention.Repository.
type RetentionRepository struct{ conn *Connection }

func NewRetentionRepository(conn *Connection) *RetentionRepository { return &RetentionRepository{conn: conn} }

func (r *RetentionRepository) Create(ctx context.Context, h *retention.LegalHold) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO legal_hold (id, entity_type, entity_id, reason, created_at, released_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		h.ID, h.EntityType, h.EntityID, h.Reason, h.CreatedAt, h.ReleasedAt)
	return err
}

func (r *RetentionRepository) Release(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `UPDATE legal_hold SET released_at = now() WHERE id = $1`, id)
	return err
}

func (r *RetentionRepository) IsHeld(ctx context.Context, entityType string, entityID uuid.UUID) (bool, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM legal_hold WHERE entity_type = $1 AND entity_id = $2 AND released_at IS NULL)`,
		entityType, entityID)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}

// PurgeFamily deletes rows in entityType older than cutoff with no active
// legal hold, satisfying retentionsvc.Purger. entityType must be one of the
// fixed retained-family table names; it is never user input.
func (r *RetentionRepository) PurgeFamily(ctx context.Context, entityType string, cutoff time.Time) (int, error) {
	table, idCol, tsCol, ok := retainedFamilyTable(entityType)
	if !ok {
		return 0, nil
	}

	tag, err := r.conn.Q(ctx).Exec(ctx, `
		DELETE FROM `+table+` t
		WHERE t.`+tsCol+` < $1
		AND NOT EXISTS (
			SELECT 1 FROM legal_hold h
			WHERE h.entity_type = $2 AND h.entity_id = t.`+idCol+` AND h.released_at IS NULL
		)`, cutoff, entityType)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func retainedFamilyTable(entityType string) (table, idCol, tsCol string, ok bool) {
	switch entityType {
	case "seller_compliance_profile":
		return "seller_compliance_profile", "id", "created_at", true
	case "production_lot":
		return "production_lot", "id", "created_at", true
	case "payment_attempt":
		return "payment_attempt", "id", "created_at", true
	case "allergen_disclosure_record":
		return "allergen_disclosure_record", "id", "created_at", true
	case "payment_dispute_case":
		return "payment_dispute_case", "id", "created_at", true
	case "session":
		return "session", "id", "created_at", true
	default:
		return "", "", "", false
	}
}
