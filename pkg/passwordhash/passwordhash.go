// Package passwordhash implements argon2id password hashing per spec.md
// §4.1. The teacher's own JWTMiddleware delegates all credential handling to
// an external Casdoor IdP and never hashes a password itself, so this has no
// direct teacher file to imitate; it is grounded instead on golang.org/x/crypto,
// the same module family (x/crypto/ssh, x/crypto/bcrypt) already present
// across the example pack's go.sum trees, using the argon2 subpackage the
// spec explicitly names.
package passwordhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLen    = 16
	keyLen     = 32
	argonTime  = 1
	argonMemKB = 64 * 1024
	argonLanes = 4
)

// Hash returns an encoded argon2id hash in the standard
// $argon2id$v=19$m=...,t=...,p=...$salt$hash form.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("passwordhash: read salt: %w", err)
	}

	sum := argon2.IDKey([]byte(password), salt, argonTime, argonMemKB, argonLanes, keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemKB, argonTime, argonLanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum))

	return encoded, nil
}

// Verify reports whether password matches the encoded hash, in constant time.
func Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("passwordhash: malformed hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("passwordhash: malformed version: %w", err)
	}

	var mem uint32
	var time_ uint32
	var lanes uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &time_, &lanes); err != nil {
		return false, fmt.Errorf("passwordhash: malformed params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("passwordhash: malformed salt: %w", err)
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("passwordhash: malformed digest: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, time_, mem, lanes, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
