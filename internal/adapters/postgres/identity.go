package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/pkg/apperr"
)

// appUserConstraints maps unique-index names on app_user to business codes,
// mirroring the teacher's per-aggregate constraint switch in
// internal/services/errors.go.
var appUserConstraints = map[string]apperr.Code{
	"app_user_email_key":                  apperr.CodeEmailTaken,
	"app_user_display_name_normalized_key": apperr.CodeDisplayNameTaken,
}

// AppUserRepository is the Postgres-backed identity.AppUserRepository.
type AppUserRepository struct {
	conn *Connection
}

func NewAppUserRepository(conn *Connection) *AppUserRepository {
	return &AppUserRepository{conn: conn}
}

func (r *AppUserRepository) Create(ctx context.Context, u *identity.AppUser) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO app_user
			(id, email, password_hash, display_name, display_name_normalized,
			 role_capability, active, country, language, lat, lng, short_id,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.DisplayNameNormalized,
		u.RoleCapability, u.Active, u.Country, u.Language, u.Lat, u.Lng, u.ShortID,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return TranslatePGError(err, "AppUser", appUserConstraints)
	}
	return nil
}

func (r *AppUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AppUser, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, display_name_normalized,
		       role_capability, active, country, language, lat, lng, short_id,
		       created_at, updated_at
		FROM app_user WHERE email = $1`, NormalizeEmail(email))
	return scanAppUser(row)
}

func (r *AppUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AppUser, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, display_name_normalized,
		       role_capability, active, country, language, lat, lng, short_id,
		       created_at, updated_at
		FROM app_user WHERE id = $1`, id)
	return scanAppUser(row)
}

func (r *AppUserRepository) DisplayNameTaken(ctx context.Context, normalized string) (bool, error) {
	var exists bool
	err := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM app_user WHERE display_name_normalized = $1)`,
		normalized).Scan(&exists)
	return exists, err
}

func (r *AppUserRepository) Update(ctx context.Context, u *identity.AppUser) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE app_user SET
			display_name = $1, display_name_normalized = $2, role_capability = $3,
			active = $4, country = $5, language = $6, lat = $7, lng = $8,
			updated_at = $9
		WHERE id = $10`,
		u.DisplayName, u.DisplayNameNormalized, u.RoleCapability,
		u.Active, u.Country, u.Language, u.Lat, u.Lng, u.UpdatedAt, u.ID)
	if err != nil {
		return TranslatePGError(err, "AppUser", appUserConstraints)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppUser(row rowScanner) (*identity.AppUser, error) {
	u := &identity.AppUser{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.DisplayNameNormalized,
		&u.RoleCapability, &u.Active, &u.Country, &u.Language, &u.Lat, &u.Lng, &u.ShortID,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "app user not found")
		}
		return nil, err
	}
	return u, nil
}

// AdminUserRepository is the Postgres-backed identity.AdminUserRepository.
type AdminUserRepository struct {
	conn *Connection
}

func NewAdminUserRepository(conn *Connection) *AdminUserRepository {
	return &AdminUserRepository{conn: conn}
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, role, active, created_at, updated_at
		FROM admin_user WHERE email = $1`, NormalizeEmail(email))
	return scanAdminUser(row)
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, role, active, created_at, updated_at
		FROM admin_user WHERE id = $1`, id)
	return scanAdminUser(row)
}

func scanAdminUser(row rowScanner) (*identity.AdminUser, error) {
	u := &identity.AdminUser{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeUnauthorized, "admin user not found")
		}
		return nil, err
	}
	return u, nil
}

// SessionRepository is the Postgres-backed identity.SessionRepository.
type SessionRepository struct {
	conn *Connection
}

func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

func (r *SessionRepository) Create(ctx context.Context, s *identity.Session) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO session (id, realm, user_id, refresh_token_hash, expires_at, revoked_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.Realm, s.UserID, s.RefreshTokenHash, s.ExpiresAt, s.RevokedAt, s.CreatedAt)
	return err
}

func (r *SessionRepository) FindActiveByHash(ctx context.Context, realm identity.Realm, refreshTokenHash string) (*identity.Session, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `
		SELECT id, realm, user_id, refresh_token_hash, expires_at, revoked_at, created_at
		FROM session
		WHERE realm = $1 AND refresh_token_hash = $2 AND revoked_at IS NULL AND expires_at > now()`,
		realm, refreshTokenHash)

	s := &identity.Session{}
	err := row.Scan(&s.ID, &s.Realm, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeTokenInvalid, "refresh token invalid, expired, or revoked")
		}
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `UPDATE session SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`, at, id)
	return err
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, realm identity.Realm, userID uuid.UUID, at time.Time) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE session SET revoked_at = $1 WHERE realm = $2 AND user_id = $3 AND revoked_at IS NULL`,
		at, realm, userID)
	return err
}

// RevokeAndCreate performs the rotation inside the ambient transaction when
// called from within Connection.WithTx; if no transaction is active it opens
// one itself so rotation is always atomic (P8).
func (r *SessionRepository) RevokeAndCreate(ctx context.Context, old uuid.UUID, next *identity.Session) error {
	do := func(ctx context.Context) error {
		if err := r.Revoke(ctx, old, time.Now().UTC()); err != nil {
			return err
		}
		return r.Create(ctx, next)
	}

	if _, inTx := ctx.Value(txKey{}).(pgx.Tx); inTx {
		return do(ctx)
	}
	return r.conn.WithTx(ctx, do)
}
