// Package idgen centralizes ID generation, mirroring the teacher's
// pkg.GenerateUUIDv7 convention: UUIDv7 for primary keys (time-ordered,
// index-friendly) and a short opaque identifier for user-facing codes.
package idgen

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 for use as a primary key.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the OS entropy source is broken; fall
		// back to a random v4 rather than panic in a hot path.
		return uuid.New()
	}
	return id
}

var shortAlphabet = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// ShortID returns an opaque, URL-safe 12-character identifier suitable for
// customer-facing codes (AppUser.short_id, Order.short_id).
func ShortID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	s := shortAlphabet.EncodeToString(buf)
	if len(s) > 12 {
		s = s[:12]
	}
	return strings.ToUpper(s)
}

// OrderCode returns a human-readable order code, e.g. "ORD-7KQJ2F3XQP1A".
func OrderCode() string {
	return "ORD-" + ShortID()
}
