package hash

import "errors"

// ErrEmptyPlaintext is returned when an empty string is hashed.
var ErrEmptyPlaintext = errors.New("hash: plaintext is empty")

// Hash is the contract for one-way hashing and verification of secrets.
//
// Verify never returns an error: any malformed or foreign digest simply
// fails verification. Implementations must compare in constant time.
type Hash interface {
	// Hash takes a plaintext string and returns its hashed representation.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
