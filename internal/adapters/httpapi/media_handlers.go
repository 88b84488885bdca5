package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/internal/domain/media"
	"github.com/coziyoo/backend/pkg/idgen"
)

// RegisterMediaAsset records the metadata row for a file an external
// object-storage adapter already accepted (spec.md §3 MediaAsset; byte
// storage itself is out of this module's scope, see SPEC_FULL.md
// Non-goals).
func (d *Deps) RegisterMediaAsset(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req struct {
		URL         string `json:"url" validate:"required,url"`
		ContentType string `json:"contentType" validate:"required"`
		SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	a := &media.Asset{
		ID:          idgen.NewID(),
		OwnerID:     p.UserID,
		URL:         req.URL,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.Media.Create(c.UserContext(), a); err != nil {
		return WithError(c, err)
	}
	return Created(c, a)
}
