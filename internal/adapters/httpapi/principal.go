package httpapi

import (
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/identity"
)

// Principal is the actor struct the teacher's untyped `req.auth` becomes
// (spec.md §9): every handler past the auth middleware receives this
// instead of reaching back into the request.
type Principal struct {
	UserID      uuid.UUID
	SessionID   uuid.UUID
	Realm       identity.Realm
	Capability  string // the app user's RoleCapability, or the admin's AdminRole
	EffectiveRole string // the role this specific request is acting as (buyer|seller|admin|super_admin)
}

// IsAdmin reports whether the principal authenticated in the admin realm.
func (p Principal) IsAdmin() bool { return p.Realm == identity.RealmAdmin }
