// Package identitysvc implements C3: registration, login, refresh rotation,
// logout and access-token verification across the app/admin realms.
// Grounded on the teacher's internal/services/command.UseCase aggregator
// (one struct embedding every repository a use case needs) and its
// one-operation-per-file layout.
package identitysvc

import (
	"time"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/authtoken"
)

// UseCase aggregates the repositories and token issuers identity operations
// need.
type UseCase struct {
	AppUsers   identity.AppUserRepository
	AdminUsers identity.AdminUserRepository
	Sessions   identity.SessionRepository

	AppAccessIssuer   *authtoken.Issuer
	AdminAccessIssuer *authtoken.Issuer
	RefreshTokenTTL   time.Duration

	Log logging.Logger
}

// TokenPair is returned by login/refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	SessionID        string
}

func (uc *UseCase) issuerFor(realm identity.Realm) *authtoken.Issuer {
	if realm == identity.RealmAdmin {
		return uc.AdminAccessIssuer
	}
	return uc.AppAccessIssuer
}
