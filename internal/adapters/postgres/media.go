package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/media"
	"github.com/coziyoo/backend/pkg/apperr"
)

// MediaRepository is the Postgres-backed media.Repository.
type MediaRepository struct{ conn *Connection }

func NewMediaRepository(conn *Connection) *MediaRepository { return &MediaRepository{conn: conn} }

func (r *MediaRepository) Create(ctx context.Context, a *media.Asset) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO media_asset (id, owner_id, url, content_type, size_bytes, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.OwnerID, a.URL, a.ContentType, a.SizeBytes, a.CreatedAt)
	return err
}

func (r *MediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*media.Asset, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT id, owner_id, url, content_type, size_bytes, created_at FROM media_asset WHERE id = $1`, id)
	a := &media.Asset{}
	err := row.Scan(&a.ID, &a.OwnerID, &a.URL, &a.ContentType, &a.SizeBytes, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "media asset not found")
		}
		return nil, err
	}
	return a, nil
}
