package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	body := []byte(`{"action":"queued"}`)
	assert.True(t, VerifySignature(body, "s", sign(body, "s")))
}

func TestVerifySignatureBitFlip(t *testing.T) {
	body := []byte(`{"action":"queued"}`)
	header := sign(body, "s")

	// Flip one bit in the hex digest.
	digest, err := hex.DecodeString(header[len("sha256="):])
	assert.NoError(t, err)
	digest[0] ^= 0x01
	flipped := "sha256=" + hex.EncodeToString(digest)

	assert.False(t, VerifySignature(body, "s", flipped))
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte(`{"action":"queued"}`)
	assert.False(t, VerifySignature(body, "other", sign(body, "s")))
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	body := []byte(`{}`)
	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing prefix", "deadbeef"},
		{"wrong prefix", "sha1=deadbeef"},
		{"non-hex digest", "sha256=zzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(body, "s", tt.header))
		})
	}
}

func TestVerifySignatureEmptySecret(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, VerifySignature(body, "", sign(body, "")))
}
