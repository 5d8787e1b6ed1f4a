package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// DefaultPeriod is the time-step size in seconds. One hour: the code acts as
// an email-verification window, not a fast-rotating authenticator code.
const DefaultPeriod uint = 3600

// DefaultSkew is how many adjacent time steps are accepted on either side of
// the current one, tolerating mail-delivery delay and clock drift.
const DefaultSkew uint = 3

// OTP defines the contract for time-based one-time-password operations.
type OTP interface {
	// Generate creates a fresh base32 secret for an account name.
	Generate(accountName string) (secret string, err error)
	// Validate checks whether a code is valid for the secret at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode computes the code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance.
//
// If digits is not 6 or 8, it falls back to 6 digits. A zero period or skew
// falls back to the package defaults (1-hour step, ±3 steps).
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = DefaultPeriod
	}

	if skew == 0 {
		skew = DefaultSkew
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: digits,
	}
}

// Generate creates a fresh secret for an account name.
func (o *TOTP) Generate(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  20, // RFC 4226/6238 recommendation
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// Validate checks whether a code is valid at the given time. The comparison
// per candidate step is constant-time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}

// GenerateCode computes the fixed-width decimal code for the secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}
