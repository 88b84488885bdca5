package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/pkg/apperr"
)

// DeliveryRepository is the Postgres-backed delivery.Repository.
type DeliveryRepository struct{ conn *Connection }

func NewDeliveryRepository(conn *Connection) *DeliveryRepository { return &DeliveryRepository{conn: conn} }

const deliveryColumns = `id, order_id, pin_hash, sent_at, expires_at, verification_attempts, status, created_at, updated_at`

func scanDeliveryRecord(row rowScanner) (*delivery.Record, error) {
	rec := &delivery.Record{}
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.PinHash, &rec.SentAt, &rec.ExpiresAt,
		&rec.VerificationAttempts, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "delivery proof record not found")
		}
		return nil, err
	}
	return rec, nil
}

func (r *DeliveryRepository) Create(ctx context.Context, rec *delivery.Record) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO delivery_proof_record (id, order_id, pin_hash, sent_at, expires_at, verification_attempts, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (order_id) DO UPDATE SET
			pin_hash = EXCLUDED.pin_hash, sent_at = EXCLUDED.sent_at, expires_at = EXCLUDED.expires_at,
			verification_attempts = 0, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.OrderID, rec.PinHash, rec.SentAt, rec.ExpiresAt, rec.VerificationAttempts, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *DeliveryRepository) FindByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*delivery.Record, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+deliveryColumns+` FROM delivery_proof_record WHERE order_id = $1 FOR UPDATE`, orderID)
	return scanDeliveryRecord(row)
}

func (r *DeliveryRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE delivery_proof_record SET verification_attempts = verification_attempts + 1, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *DeliveryRepository) Replace(ctx context.Context, id uuid.UUID, pinHash string, sentAt, expiresAt time.Time) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE delivery_proof_record SET pin_hash = $2, sent_at = $3, expires_at = $4,
		       verification_attempts = 0, status = 'pending', updated_at = now()
		WHERE id = $1`, id, pinHash, sentAt, expiresAt)
	return err
}

func (r *DeliveryRepository) SetStatus(ctx context.Context, id uuid.UUID, status delivery.Status) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE delivery_proof_record SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}
