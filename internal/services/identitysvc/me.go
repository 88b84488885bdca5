package identitysvc

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/identity"
)

// Me returns the authenticated principal's own profile row (spec.md §6
// "GET /auth/me"), scoped to whichever realm the access token was issued
// for.
func (uc *UseCase) Me(ctx context.Context, realm identity.Realm, userID uuid.UUID) (any, error) {
	if realm == identity.RealmAdmin {
		return uc.AdminUsers.FindByID(ctx, userID)
	}
	return uc.AppUsers.FindByID(ctx, userID)
}

// CheckDisplayName reports whether a candidate display name is already
// taken, normalizing it the same way Register does so the check and the
// eventual write agree (spec.md §6 "GET /auth/display-name/check").
func (uc *UseCase) CheckDisplayName(ctx context.Context, displayName string) (bool, error) {
	return uc.AppUsers.DisplayNameTaken(ctx, normalizeDisplayName(displayName))
}
