package identitysvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/authtoken"
	"github.com/coziyoo/backend/pkg/idgen"
)

// Refresh locates the active session by refresh-token hash and, in one
// transaction, revokes it and creates the next session (P8). Fails
// TOKEN_INVALID if the token is missing, expired, or already revoked.
func (uc *UseCase) Refresh(ctx context.Context, realm identity.Realm, refreshToken string) (*TokenPair, error) {
	hash := authtoken.HashRefreshToken(refreshToken)

	session, err := uc.Sessions.FindActiveByHash(ctx, realm, hash)
	if err != nil {
		return nil, err
	}

	role, err := uc.roleFor(ctx, realm, session.UserID)
	if err != nil {
		return nil, err
	}

	nextID := idgen.NewID()
	nextToken, nextHash := authtoken.NewOpaqueRefreshToken()
	now := time.Now().UTC()
	expiresAt := now.Add(uc.RefreshTokenTTL)

	next := &identity.Session{
		ID:               nextID,
		Realm:            realm,
		UserID:           session.UserID,
		RefreshTokenHash: nextHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
	}

	if err := uc.Sessions.RevokeAndCreate(ctx, session.ID, next); err != nil {
		return nil, err
	}

	access, accessExp, err := uc.issuerFor(realm).Sign(session.UserID, nextID, role)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to sign access token", err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     nextToken,
		RefreshExpiresAt: expiresAt,
		SessionID:        nextID.String(),
	}, nil
}

// roleFor re-derives the role to embed in the new access token; the session
// row itself carries no role, so refresh re-reads the owning user.
func (uc *UseCase) roleFor(ctx context.Context, realm identity.Realm, userID uuid.UUID) (string, error) {
	switch realm {
	case identity.RealmApp:
		u, err := uc.AppUsers.FindByID(ctx, userID)
		if err != nil {
			return "", apperr.New(apperr.CodeTokenInvalid, "user no longer exists")
		}
		return string(u.RoleCapability), nil
	case identity.RealmAdmin:
		u, err := uc.AdminUsers.FindByID(ctx, userID)
		if err != nil {
			return "", apperr.New(apperr.CodeTokenInvalid, "user no longer exists")
		}
		return string(u.Role), nil
	default:
		return "", apperr.New(apperr.CodeValidation, "unknown realm")
	}
}
