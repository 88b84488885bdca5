package identitysvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/authtoken"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/passwordhash"
)

// Login authenticates against the user table selected by realm and returns
// an access/refresh token pair, persisting a new Session row (spec.md §4.1).
func (uc *UseCase) Login(ctx context.Context, realm identity.Realm, email, password string) (*TokenPair, error) {
	var (
		userID uuid.UUID
		active bool
		hash   string
		role   string
	)

	switch realm {
	case identity.RealmApp:
		u, err := uc.AppUsers.FindByEmail(ctx, email)
		if err != nil {
			return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
		}
		userID, active, hash, role = u.ID, u.Active, u.PasswordHash, string(u.RoleCapability)
	case identity.RealmAdmin:
		u, err := uc.AdminUsers.FindByEmail(ctx, email)
		if err != nil {
			return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
		}
		userID, active, hash, role = u.ID, u.Active, u.PasswordHash, string(u.Role)
	default:
		return nil, apperr.New(apperr.CodeValidation, "unknown realm")
	}

	if !active {
		return nil, apperr.New(apperr.CodeUnauthorized, "account deactivated")
	}

	ok, err := passwordhash.Verify(password, hash)
	if err != nil || !ok {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	return uc.issueSession(ctx, realm, userID, role)
}

func (uc *UseCase) issueSession(ctx context.Context, realm identity.Realm, userID uuid.UUID, role string) (*TokenPair, error) {
	sessionID := idgen.NewID()
	refreshToken, refreshHash := authtoken.NewOpaqueRefreshToken()
	now := time.Now().UTC()
	expiresAt := now.Add(uc.RefreshTokenTTL)

	session := &identity.Session{
		ID:               sessionID,
		Realm:            realm,
		UserID:           userID,
		RefreshTokenHash: refreshHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
	}
	if err := uc.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	access, accessExp, err := uc.issuerFor(realm).Sign(userID, sessionID, role)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to sign access token", err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: expiresAt,
		SessionID:        sessionID.String(),
	}, nil
}
