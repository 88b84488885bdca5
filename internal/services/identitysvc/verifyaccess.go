package identitysvc

import (
	"github.com/coziyoo/backend/internal/domain/identity"
)

// VerifiedPrincipal is what verifyAccess() returns to the HTTP middleware
// layer (spec.md §4.1: `{userId, sessionId, realm, role}`).
type VerifiedPrincipal struct {
	UserID    string
	SessionID string
	Realm     identity.Realm
	Role      string
}

// VerifyAccess decodes and validates an access token for the given realm.
func (uc *UseCase) VerifyAccess(realm identity.Realm, token string) (*VerifiedPrincipal, error) {
	claims, err := uc.issuerFor(realm).Verify(token)
	if err != nil {
		return nil, err
	}

	return &VerifiedPrincipal{
		UserID:    claims.UserID.String(),
		SessionID: claims.SessionID.String(),
		Realm:     claims.Realm,
		Role:      claims.Role,
	}, nil
}
