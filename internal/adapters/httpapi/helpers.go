package httpapi

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/pagination"
)

// jsonEnvelope marshals a response body ahead of sending it, so the same
// bytes can also be cached by the idempotency store.
func jsonEnvelope(v any) ([]byte, error) {
	return json.Marshal(v)
}

// ownershipError is returned when a caller acts on a resource owned by
// another seller/buyer.
func ownershipError() error {
	return apperr.New(apperr.CodeRoleNotAllowed, "you do not own this resource")
}

// forbiddenOrderScope is returned when a caller tries to view an order they
// are not the buyer, seller, or an admin of.
func forbiddenOrderScope() error {
	return apperr.New(apperr.CodeForbiddenOrderScope, "order is outside your scope")
}

// decodeCursorID decodes the request's opaque `cursor` query param into the
// raw anchor id the repository layer expects.
func decodeCursorID(c *fiber.Ctx) (string, error) {
	cur, err := pagination.DecodeCursor(queryCursor(c))
	if err != nil {
		return "", err
	}
	return cur.ID, nil
}

// cursorResult builds the feed-page response envelope from the last row's
// id and the repository's hasMore flag.
func cursorResult(lastID string, hasMore bool, limit int) pagination.CursorResult {
	res := pagination.CursorResult{Limit: limit, HasMore: hasMore}
	if hasMore && lastID != "" {
		res.NextCursor = pagination.EncodeCursor(pagination.CreateCursor(lastID, true))
	}
	return res
}

// pathUUID parses a fiber path param as a UUID or writes a validation error
// and returns ok=false.
func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	raw := c.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = WithError(c, paramUUIDErr(name, raw))
		return uuid.Nil, false
	}
	return id, true
}

func queryCursor(c *fiber.Ctx) string {
	return c.Query("cursor")
}

func queryLimit(c *fiber.Ctx, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// queryIntParam reads an offset-pagination query param (page/pageSize),
// leaving out-of-range values for pagination.ValidateOffset to reject
// rather than silently clamping them here.
func queryIntParam(c *fiber.Ctx, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}
