package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 implements the Hash interface using HMAC-SHA256.
//
// Unlike bcrypt/argon2id it is deterministic, which makes it suitable for
// fingerprinting lookup tokens (e.g. reset-proof tokens) before persisting
// them: the store never holds the raw token, yet an exact-match lookup and a
// constant-time comparison remain possible.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher with a secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the HMAC-SHA256 of the input string (hex-encoded).
func (s *HMACSHA256) Hash(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, ErrEmptyPlaintext
	}
	return s.gen(plaintext), nil
}

// Verify checks whether the plaintext matches the given fingerprint.
func (s *HMACSHA256) Verify(hashed, plaintext string) bool {
	expected := s.gen(plaintext)
	return subtle.ConstantTimeCompare([]byte(hashed), expected) == 1
}

func (s *HMACSHA256) gen(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	sum := h.Sum(nil)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
