// Package httpapi implements C14: the versioned /v1 HTTP surface, the
// response envelope, and the cross-cutting auth/actor-role/idempotency/
// abuse gates every monetary endpoint composes before calling into a pure
// domain use case. Grounded on the teacher's adapters/http/in router +
// handler split (fiber.App, one handler struct per aggregate, a single
// error-translating middleware at the edge) with the teacher's OpenTelemetry
// and lib-auth middleware dropped (see DESIGN.md) since this module owns
// its own realm-scoped JWT issuance instead of delegating to an external
// IdP.
package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/pagination"
)

// envelopeError is the stable `{error:{code,message,details}}` shape from
// spec.md §4.11.
type envelopeError struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

// Created writes a 201 success envelope.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

// OKPage writes a 200 success envelope carrying an offset-mode pagination
// block (spec.md §4.11).
func OKPage(c *fiber.Ctx, data any, page pagination.OffsetResult) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data, "pagination": page})
}

// OKCursor writes a 200 success envelope carrying a cursor-mode pagination
// block.
func OKCursor(c *fiber.Ctx, data any, cursor pagination.CursorResult) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data, "pagination": cursor})
}

// WithError translates any error into the stable error envelope. A typed
// *apperr.Error carries its own code/status; anything else is logged and
// folded into INTERNAL_ERROR so internal details never reach the client
// (spec.md §7.8).
func WithError(c *fiber.Ctx, err error) error {
	if ae, ok := apperr.As(err); ok {
		return c.Status(apperr.HTTPStatus(ae.Code)).JSON(fiber.Map{
			"error": envelopeError{Code: ae.Code, Message: ae.Message, Details: ae.Details},
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": envelopeError{Code: apperr.CodeInternal, Message: "an internal error occurred"},
	})
}
