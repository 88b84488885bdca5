package identitysvc

import (
	"context"
	"strings"
	"time"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/passwordhash"
)

// RegisterInput is the register() request contract (spec.md §4.1).
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	UserType    identity.RoleCapability
	Country     string
	Language    string
}

// Register creates a new AppUser with a normalized display name and an
// argon2id password hash. Uniqueness is enforced by the database, not a
// pre-check, so a race between two concurrent registrations still produces
// exactly one winner and a stable conflict code for the loser.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*identity.AppUser, error) {
	if in.UserType != identity.RoleBuyer && in.UserType != identity.RoleSeller && in.UserType != identity.RoleBoth {
		return nil, apperr.New(apperr.CodeValidation, "userType must be buyer, seller, or both")
	}

	hash, err := passwordhash.Hash(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &identity.AppUser{
		ID:                    idgen.NewID(),
		Email:                 normalizeEmail(in.Email),
		PasswordHash:          hash,
		DisplayName:           in.DisplayName,
		DisplayNameNormalized: normalizeDisplayName(in.DisplayName),
		RoleCapability:        in.UserType,
		Active:                true,
		Country:               in.Country,
		Language:              in.Language,
		ShortID:               idgen.ShortID(),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := uc.AppUsers.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.Log.Infof("registered app user %s (%s)", u.ID, u.RoleCapability)
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeDisplayName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
