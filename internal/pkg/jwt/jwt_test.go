package jwt

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeUUID struct{}

func (fakeUUID) Generate() string { return "00000000-0000-0000-0000-000000000001" }

func testConfig(clk clocker) Config {
	return Config{
		Secret:    bytes.Repeat([]byte("k"), 64),
		Issuer:    "keyfold",
		Audiences: []string{"keyfold-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      fakeUUID{},
	}
}

func TestNewHS512(t *testing.T) {
	t.Run("RejectsShortKey", func(t *testing.T) {
		// Arrange
		cfg := testConfig(&fakeClock{now: time.Now()})
		cfg.Secret = []byte("too short")

		// Act
		_, err := NewHS512(cfg)

		// Assert
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("NewHS512() error = %v, want ErrSigningKeyTooShort", err)
		}
	})
}

func TestSymmetric(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("RoundTripPerPurpose", func(t *testing.T) {
		for _, purpose := range []Purpose{PurposeSession, PurposeOtpProof, PurposeResetProof} {
			// Arrange
			clk := &fakeClock{now: base}
			s, err := NewHS512(testConfig(clk))
			if err != nil {
				t.Fatalf("NewHS512() error = %v", err)
			}

			// Act
			tokenStr, err := s.Generate(42, "user@example.com", purpose)
			if err != nil {
				t.Fatalf("Generate(%s) error = %v", purpose, err)
			}
			claims, err := s.Verify(tokenStr, purpose)

			// Assert
			if err != nil {
				t.Fatalf("Verify(%s) error = %v", purpose, err)
			}
			if claims.UserID != 42 {
				t.Fatalf("UserID = %d, want 42", claims.UserID)
			}
			if claims.UserEmail != "user@example.com" {
				t.Fatalf("UserEmail = %q", claims.UserEmail)
			}
			if claims.Purpose != purpose {
				t.Fatalf("Purpose = %q, want %q", claims.Purpose, purpose)
			}
		}
	})

	t.Run("WrongPurposeRejected", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))
		tokenStr, err := s.Generate(42, "user@example.com", PurposeOtpProof)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = s.Verify(tokenStr, PurposeSession)

		// Assert
		if !errors.Is(err, ErrWrongPurpose) {
			t.Fatalf("Verify() error = %v, want ErrWrongPurpose", err)
		}
	})

	t.Run("ExpiredRejected", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))
		tokenStr, err := s.Generate(42, "user@example.com", PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		clk.now = base.Add(61 * time.Minute)
		_, err = s.Verify(tokenStr, PurposeSession)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("ValidJustBeforeExpiry", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))
		tokenStr, err := s.Generate(42, "user@example.com", PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		clk.now = base.Add(59 * time.Minute)
		_, err = s.Verify(tokenStr, PurposeSession)

		// Assert
		if err != nil {
			t.Fatalf("Verify() error = %v, want nil", err)
		}
	})

	t.Run("TamperedRejected", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))
		tokenStr, err := s.Generate(42, "user@example.com", PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = s.Verify(tokenStr+"x", PurposeSession)

		// Assert
		if err == nil {
			t.Fatal("Verify() error = nil for tampered token")
		}
	})

	t.Run("DifferentKeyRejected", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))
		other := testConfig(clk)
		other.Secret = bytes.Repeat([]byte("z"), 64)
		s2, _ := NewHS512(other)
		tokenStr, err := s.Generate(42, "user@example.com", PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = s2.Verify(tokenStr, PurposeSession)

		// Assert
		if err == nil {
			t.Fatal("Verify() error = nil for token signed with another key")
		}
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		s, _ := NewHS512(testConfig(clk))

		// Act
		_, err := s.Verify("not.a.token", PurposeSession)

		// Assert
		if err == nil {
			t.Fatal("Verify() error = nil for garbage input")
		}
	})
}
