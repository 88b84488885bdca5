package identitysvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/identity"
)

// Logout revokes a single session.
func (uc *UseCase) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return uc.Sessions.Revoke(ctx, sessionID, time.Now().UTC())
}

// LogoutAll revokes every active session for a user within a realm.
func (uc *UseCase) LogoutAll(ctx context.Context, realm identity.Realm, userID uuid.UUID) error {
	return uc.Sessions.RevokeAllForUser(ctx, realm, userID, time.Now().UTC())
}
