package entity

import "time"

// Identity is a registered account.
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	IsVerified   bool

	// ResetTokenHash is the HMAC fingerprint of the latest outstanding
	// password reset token. Empty when no reset is in flight. Issuing a new
	// token overwrites it, so only the most recent token can redeem.
	ResetTokenHash   string
	ResetTokenExpiry time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OtpChallenge is a pending email-ownership challenge.
//
// The secret never leaves the server; only codes derived from it are mailed.
// ExpiresAt is the logical deadline, kept inside the payload so an expired
// challenge can be told apart from one that never existed.
type OtpChallenge struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
	// IssuedCode is the code computed at issuance, kept for support and
	// debugging. Verification always recomputes from the secret.
	IssuedCode string    `json:"issued_code"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
