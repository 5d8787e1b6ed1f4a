package otp

import (
	"testing"
	"time"

	po "github.com/pquerna/otp"
)

func TestTOTP(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	step := time.Duration(DefaultPeriod) * time.Second

	t.Run("GenerateProducesUsableSecret", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)

		// Act
		secret, err := o.Generate("user@example.com")

		// Assert
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(secret) < 32 {
			t.Fatalf("Generate() secret too short: %d chars", len(secret))
		}
		code, err := o.GenerateCode(secret, now)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if !o.Validate(code, secret, now) {
			t.Fatal("Validate() = false for freshly generated code")
		}
	})

	t.Run("CodeIsFixedWidth", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secret, err := o.Generate("user@example.com")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act & Assert
		for i := range 10 {
			code, err := o.GenerateCode(secret, now.Add(time.Duration(i)*step))
			if err != nil {
				t.Fatalf("GenerateCode() error = %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("GenerateCode() = %q, want 6 digits", code)
			}
		}
	})

	t.Run("CodeIsDeterministicPerStep", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secret, err := o.Generate("user@example.com")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		a, _ := o.GenerateCode(secret, now)
		b, _ := o.GenerateCode(secret, now.Add(30*time.Minute))

		// Assert
		if a != b {
			t.Fatalf("codes within the same step differ: %q vs %q", a, b)
		}
	})

	t.Run("ValidInsideSkewWindow", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secret, err := o.Generate("user@example.com")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		code, err := o.GenerateCode(secret, now)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}

		// Act & Assert
		for _, offset := range []time.Duration{-3 * step, -2 * step, 0, 2 * step, 3 * step} {
			if !o.Validate(code, secret, now.Add(offset)) {
				t.Fatalf("Validate() = false at offset %v, want true", offset)
			}
		}
	})

	t.Run("InvalidOutsideSkewWindow", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secret, err := o.Generate("user@example.com")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		code, err := o.GenerateCode(secret, now)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}

		// Act & Assert
		for _, offset := range []time.Duration{-4 * step, 4 * step, 24 * step} {
			if o.Validate(code, secret, now.Add(offset)) {
				t.Fatalf("Validate() = true at offset %v, want false", offset)
			}
		}
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secretA, _ := o.Generate("a@example.com")
		secretB, _ := o.Generate("b@example.com")
		code, err := o.GenerateCode(secretA, now)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}

		// Act & Assert
		if o.Validate(code, secretB, now) {
			t.Fatal("Validate() = true for code from another secret")
		}
	})

	t.Run("MalformedCodeRejected", func(t *testing.T) {
		// Arrange
		o := NewTOTP("keyfold", 0, 0, po.DigitsSix)
		secret, _ := o.Generate("user@example.com")

		// Act & Assert
		for _, code := range []string{"", "12345", "1234567", "abcdef"} {
			if o.Validate(code, secret, now) {
				t.Fatalf("Validate(%q) = true, want false", code)
			}
		}
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		// Arrange & Act
		o := NewTOTP("keyfold", 0, 0, po.Digits(12))

		// Assert
		if o.period != DefaultPeriod {
			t.Fatalf("period = %d, want %d", o.period, DefaultPeriod)
		}
		if o.skew != DefaultSkew {
			t.Fatalf("skew = %d, want %d", o.skew, DefaultSkew)
		}
		if o.digits != po.DigitsSix {
			t.Fatalf("digits = %v, want six", o.digits)
		}
	})
}
