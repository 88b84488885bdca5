// Package identity implements C3: AppUser/AdminUser and their sessions
// across two fully isolated realms. Grounded on the teacher's
// domain/onboarding/organization entity+repository split
// (entity.go + *_repository.go per aggregate).
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Realm is one of the two fully isolated authentication domains.
type Realm string

const (
	RealmApp   Realm = "app"
	RealmAdmin Realm = "admin"
)

// RoleCapability is what an AppUser is allowed to act as.
type RoleCapability string

const (
	RoleBuyer  RoleCapability = "buyer"
	RoleSeller RoleCapability = "seller"
	RoleBoth   RoleCapability = "both"
)

// AdminRole is an AdminUser's fixed role.
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "super_admin"
)

// AppUser is a buyer/seller/both-capability marketplace user.
type AppUser struct {
	ID                   uuid.UUID
	Email                string
	PasswordHash         string
	DisplayName          string
	DisplayNameNormalized string
	RoleCapability       RoleCapability
	Active               bool
	Country              string
	Language             string
	Lat, Lng             *float64
	ShortID              string
	CreatedAt, UpdatedAt time.Time
}

// AdminUser is an operator-console user, disjoint from AppUser.
type AdminUser struct {
	ID                   uuid.UUID
	Email                string
	PasswordHash         string
	DisplayName          string
	Role                 AdminRole
	Active               bool
	CreatedAt, UpdatedAt time.Time
}

// Session stores only a hash of the refresh token, per spec.md §3.
type Session struct {
	ID               uuid.UUID
	Realm            Realm
	UserID           uuid.UUID
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

// AppUserRepository persists AppUser rows.
type AppUserRepository interface {
	Create(ctx context.Context, u *AppUser) error
	FindByEmail(ctx context.Context, email string) (*AppUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*AppUser, error)
	DisplayNameTaken(ctx context.Context, normalized string) (bool, error)
	Update(ctx context.Context, u *AppUser) error
}

// AdminUserRepository persists AdminUser rows.
type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
}

// SessionRepository persists Session rows, implementing rotation per P8:
// RevokeAndCreate must run both writes in the same transaction.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	FindActiveByHash(ctx context.Context, realm Realm, refreshTokenHash string) (*Session, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeAllForUser(ctx context.Context, realm Realm, userID uuid.UUID, at time.Time) error
	// RevokeAndCreate atomically revokes `old` and inserts `next`, satisfying
	// P8 (refresh token rotation is all-or-nothing).
	RevokeAndCreate(ctx context.Context, old uuid.UUID, next *Session) error
}
