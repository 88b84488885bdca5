package paymentsvc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature reports whether sigHex equals hex(hmac_sha256(secret,
// body)), using a timing-safe compare (spec.md §4.7/§6: "x-provider-signature
// header, hmac_sha256(secret, raw_body)").
func VerifySignature(secret, body []byte, sigHex string) bool {
	expected := hmac.New(sha256.New, secret)
	expected.Write(body)
	want := expected.Sum(nil)

	got, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}
