package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/abuse"
	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/pkg/apperr"
)

const principalLocalsKey = "principal"

// bearerToken extracts the token from `Authorization: Bearer <token>`.
func bearerToken(c *fiber.Ctx) (string, error) {
	h := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", apperr.New(apperr.CodeUnauthorized, "missing bearer token")
	}
	return strings.TrimPrefix(h, prefix), nil
}

// requireAuth verifies the bearer token against the given realm and, for
// `both`-capability app users, resolves the effective per-request role from
// the `x-actor-role` header (spec.md §4.2). allowedRoles is empty to accept
// any authenticated principal of the realm.
func (d *Deps) requireAuth(realm identity.Realm, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return WithError(c, err)
		}

		verified, err := d.Identity.VerifyAccess(realm, token)
		if err != nil {
			return WithError(c, err)
		}

		userID, err := uuid.Parse(verified.UserID)
		if err != nil {
			return WithError(c, apperr.New(apperr.CodeTokenInvalid, "malformed subject claim"))
		}
		sessionID, err := uuid.Parse(verified.SessionID)
		if err != nil {
			return WithError(c, apperr.New(apperr.CodeTokenInvalid, "malformed session claim"))
		}

		effective := verified.Role
		if verified.Role == string(identity.RoleBoth) {
			header := c.Get("x-actor-role")
			if header != string(identity.RoleBuyer) && header != string(identity.RoleSeller) {
				return WithError(c, apperr.New(apperr.CodeValidation, "x-actor-role header must be buyer or seller for both-capability users"))
			}
			effective = header
		}

		if len(allowedRoles) > 0 && !roleAllowed(effective, allowedRoles) {
			return WithError(c, apperr.New(apperr.CodeRoleNotAllowed, "role not permitted for this endpoint"))
		}

		c.Locals(principalLocalsKey, Principal{
			UserID:        userID,
			SessionID:     sessionID,
			Realm:         verified.Realm,
			Capability:    verified.Role,
			EffectiveRole: effective,
		})
		return c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// principalFrom reads the Principal a prior requireAuth call attached.
func principalFrom(c *fiber.Ctx) Principal {
	p, _ := c.Locals(principalLocalsKey).(Principal)
	return p
}

// abuseGate enforces C6 for a named flow, keyed by client IP and (once
// authenticated) the caller's user id.
func (d *Deps) abuseGate(flow abuse.Flow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var subject *uuid.UUID
		if p := principalFrom(c); p.UserID != uuid.Nil {
			subject = &p.UserID
		}
		if err := d.Abuse.Check(c.UserContext(), flow, c.IP(), subject); err != nil {
			return WithError(c, err)
		}
		return c.Next()
	}
}

// idempotencyResult is what checkIdempotency returns to a handler: either a
// cached response to replay verbatim, or nothing (caller proceeds and must
// call storeIdempotent once it has produced its own response).
type idempotencyResult struct {
	Replay bool
	Status int
	Body   []byte
}

func (d *Deps) checkIdempotency(c *fiber.Ctx, scope string) (idempotencyResult, error) {
	key := c.Get("Idempotency-Key")
	if key == "" {
		return idempotencyResult{}, nil
	}
	rec, err := d.Idempotency.Check(c.UserContext(), scope, key, c.Body())
	if err != nil {
		return idempotencyResult{}, err
	}
	if rec == nil {
		return idempotencyResult{}, nil
	}
	return idempotencyResult{Replay: true, Status: rec.StatusCode, Body: rec.Body}, nil
}

func (d *Deps) storeIdempotent(c *fiber.Ctx, scope string, status int, body []byte) {
	key := c.Get("Idempotency-Key")
	if key == "" {
		return
	}
	if err := d.Idempotency.StoreResponse(c.UserContext(), scope, key, c.Body(), body, status); err != nil {
		d.Log.Warnf("idempotency: failed to store response for scope %s: %v", scope, err)
	}
}
