// Package webhook verifies and translates inbound GitHub webhook requests.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the request header carrying the payload HMAC digest.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// VerifySignature reports whether header carries a valid HMAC-SHA256 digest of
// body keyed by secret, in the form "sha256=<hex>". It never returns true for
// an empty secret, and uses a constant-time comparison so verification timing
// does not leak digest information.
func VerifySignature(body []byte, secret, header string) bool {
	if secret == "" {
		return false
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(got, mac.Sum(nil))
}
