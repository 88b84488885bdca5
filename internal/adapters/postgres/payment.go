package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/payment"
	"github.com/coziyoo/backend/pkg/apperr"
)

// PaymentRepository is the Postgres-backed payment.Repository.
type PaymentRepository struct{ conn *Connection }

func NewPaymentRepository(conn *Connection) *PaymentRepository { return &PaymentRepository{conn: conn} }

const paymentColumns = `id, order_id, provider, provider_session_id, provider_reference_id,
			 status, signature_valid, callback_payload, created_at, updated_at`

func scanPaymentAttempt(row rowScanner) (*payment.Attempt, error) {
	a := &payment.Attempt{}
	var payload []byte
	err := row.Scan(&a.ID, &a.OrderID, &a.Provider, &a.ProviderSessionID, &a.ProviderReferenceID,
		&a.Status, &a.SignatureValid, &payload, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "payment attempt not found")
		}
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &a.CallbackPayload); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (r *PaymentRepository) Create(ctx context.Context, a *payment.Attempt) error {
	payload, err := json.Marshal(a.CallbackPayload)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO payment_attempt (id, order_id, provider, provider_session_id, provider_reference_id,
		                              status, signature_valid, callback_payload, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.OrderID, a.Provider, a.ProviderSessionID, a.ProviderReferenceID,
		a.Status, a.SignatureValid, payload, a.CreatedAt, a.UpdatedAt)
	return TranslatePGError(err, "PaymentAttempt", map[string]apperr.Code{
		"payment_attempt_provider_session_id_key":   apperr.CodeConflict,
		"payment_attempt_provider_reference_id_key": apperr.CodeConflict,
	})
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Attempt, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_attempt WHERE order_id = $1`, orderID)
	return scanPaymentAttempt(row)
}

func (r *PaymentRepository) FindBySessionIDForUpdate(ctx context.Context, sessionID string) (*payment.Attempt, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_attempt WHERE provider_session_id = $1 FOR UPDATE`, sessionID)
	return scanPaymentAttempt(row)
}

func (r *PaymentRepository) RecordReturn(ctx context.Context, id uuid.UUID, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx,
		`UPDATE payment_attempt SET callback_payload = $2, updated_at = now() WHERE id = $1`, id, b)
	return err
}

func (r *PaymentRepository) ApplyWebhookResult(ctx context.Context, id uuid.UUID, status payment.Status, signatureValid bool, referenceID *string, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		UPDATE payment_attempt SET status = $2, signature_valid = $3, provider_reference_id = $4,
		       callback_payload = $5, updated_at = now()
		WHERE id = $1`, id, status, signatureValid, referenceID, b)
	return TranslatePGError(err, "PaymentAttempt", map[string]apperr.Code{
		"payment_attempt_provider_reference_id_key": apperr.CodeConflict,
	})
}
