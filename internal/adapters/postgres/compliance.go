package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/pkg/apperr"
)

// ComplianceRepository is the Postgres-backed compliance.Repository.
type ComplianceRepository struct{ conn *Connection }

func NewComplianceRepository(conn *Connection) *ComplianceRepository {
	return &ComplianceRepository{conn: conn}
}

func scanProfile(row rowScanner) (*compliance.Profile, error) {
	p := &compliance.Profile{}
	err := row.Scan(&p.ID, &p.SellerID, &p.Country, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "compliance profile not found")
		}
		return nil, err
	}
	return p, nil
}

func (r *ComplianceRepository) Create(ctx context.Context, p *compliance.Profile) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO seller_compliance_profile (id, seller_id, country, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.SellerID, p.Country, p.Status, p.CreatedAt, p.UpdatedAt)
	return TranslatePGError(err, "SellerComplianceProfile", map[string]apperr.Code{
		"seller_compliance_profile_seller_id_key": apperr.CodeConflict,
	})
}

func (r *ComplianceRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*compliance.Profile, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT id, seller_id, country, status, created_at, updated_at FROM seller_compliance_profile WHERE seller_id = $1`, sellerID)
	return scanProfile(row)
}

func (r *ComplianceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*compliance.Profile, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT id, seller_id, country, status, created_at, updated_at FROM seller_compliance_profile WHERE id = $1 FOR UPDATE`, id)
	return scanProfile(row)
}

func (r *ComplianceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status compliance.ProfileStatus) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE seller_compliance_profile SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

func (r *ComplianceRepository) AddDocument(ctx context.Context, d *compliance.Document) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO seller_compliance_document (id, profile_id, doc_type, media_asset_id, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.ProfileID, d.DocType, d.MediaAssetID, d.CreatedAt)
	return err
}

func (r *ComplianceRepository) UpsertCheck(ctx context.Context, c *compliance.Check) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO seller_compliance_check (id, profile_id, seller_id, check_code, required, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (seller_id, check_code) DO UPDATE SET
			required = EXCLUDED.required, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		c.ID, c.ProfileID, c.SellerID, c.CheckCode, c.Required, c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *ComplianceRepository) Checks(ctx context.Context, profileID uuid.UUID) ([]*compliance.Check, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, profile_id, seller_id, check_code, required, status, created_at, updated_at
		FROM seller_compliance_check WHERE profile_id = $1`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*compliance.Check
	for rows.Next() {
		c := &compliance.Check{}
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.SellerID, &c.CheckCode, &c.Required, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ComplianceRepository) RequiredChecksVerified(ctx context.Context, profileID uuid.UUID) (bool, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT NOT EXISTS (
			SELECT 1 FROM seller_compliance_check
			WHERE profile_id = $1 AND required = true AND status <> 'verified'
		)`, profileID)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}

func (r *ComplianceRepository) AppendEvent(ctx context.Context, e *compliance.Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO seller_compliance_event (id, profile_id, event_type, actor_id, details, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.ProfileID, e.EventType, e.ActorID, details, e.CreatedAt)
	return err
}

func (r *ComplianceRepository) Events(ctx context.Context, profileID uuid.UUID) ([]*compliance.Event, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, profile_id, event_type, actor_id, details, created_at
		FROM seller_compliance_event WHERE profile_id = $1 ORDER BY created_at ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*compliance.Event
	for rows.Next() {
		e := &compliance.Event{}
		var details []byte
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.EventType, &e.ActorID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
