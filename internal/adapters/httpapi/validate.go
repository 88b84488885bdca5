package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/pkg/apperr"
)

// bind decodes the request body into dst and validates it against its
// `validate` struct tags, folding any failure into CodeValidation with a
// field-level details map (spec.md §4.11).
func (d *Deps) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.New(apperr.CodeValidation, "malformed request body")
	}
	if err := d.Valid.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	details := map[string]any{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperr.New(apperr.CodeValidation, "request failed validation").WithDetails(details)
}

// paramUUIDErr builds the CodeValidation error reported when a path
// parameter is not a valid UUID, so a malformed id never reaches the
// database layer.
func paramUUIDErr(name, value string) error {
	return apperr.Newf(apperr.CodeValidation, "%s must be a valid id: %s", name, value)
}
