package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/dispute"
	"github.com/coziyoo/backend/pkg/apperr"
)

// DisputeRepository is the Postgres-backed dispute.Repository.
type DisputeRepository struct{ conn *Connection }

func NewDisputeRepository(conn *Connection) *DisputeRepository { return &DisputeRepository{conn: conn} }

const disputeColumns = `id, order_id, payment_attempt_id, case_type, status, liability_party,
			 liability_ratio, evidence, created_at, updated_at`

func scanDisputeCase(row rowScanner) (*dispute.Case, error) {
	c := &dispute.Case{}
	var evidence []byte
	err := row.Scan(&c.ID, &c.OrderID, &c.PaymentAttemptID, &c.CaseType, &c.Status, &c.LiabilityParty,
		&c.LiabilityRatio, &evidence, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "dispute case not found")
		}
		return nil, err
	}
	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &c.Evidence); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *DisputeRepository) Create(ctx context.Context, c *dispute.Case) error {
	evidence, err := json.Marshal(c.Evidence)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO payment_dispute_case (id, order_id, payment_attempt_id, case_type, status,
		                                   liability_party, liability_ratio, evidence, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.OrderID, c.PaymentAttemptID, c.CaseType, c.Status, c.LiabilityParty, c.LiabilityRatio,
		evidence, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *DisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*dispute.Case, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+disputeColumns+` FROM payment_dispute_case WHERE id = $1`, id)
	return scanDisputeCase(row)
}

func (r *DisputeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*dispute.Case, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+disputeColumns+` FROM payment_dispute_case WHERE id = $1 FOR UPDATE`, id)
	return scanDisputeCase(row)
}

func (r *DisputeRepository) FindOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*dispute.Case, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT `+disputeColumns+` FROM payment_dispute_case
		WHERE order_id = $1 AND status IN ('opened', 'under_review')
		ORDER BY created_at DESC LIMIT 1`, orderID)
	return scanDisputeCase(row)
}

func (r *DisputeRepository) Resolve(ctx context.Context, id uuid.UUID, status dispute.Status, liability dispute.LiabilityParty, ratio float64) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE payment_dispute_case SET status = $2, liability_party = $3, liability_ratio = $4, updated_at = now()
		WHERE id = $1`, id, status, liability, ratio)
	return err
}
