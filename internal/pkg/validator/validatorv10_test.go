package validator

import (
	"errors"
	"testing"
)

func TestV10Validator(t *testing.T) {
	type registerInput struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,password"`
	}

	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	t.Run("ValidInput", func(t *testing.T) {
		// Act
		err := v.Validate(registerInput{Email: "user@example.com", Password: "correct horse"})

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		// Act
		err := v.Validate(registerInput{Email: "not-an-email", Password: "correct horse"})

		// Assert
		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Validate() error = %v, want V10ValidationError", err)
		}
		if _, ok := verr.Values()["email"]; !ok {
			t.Fatalf("Validate() fields = %v, want email key", verr.Values())
		}
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		// Act
		err := v.Validate(registerInput{Email: "user@example.com", Password: "short"})

		// Assert
		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Validate() error = %v, want V10ValidationError", err)
		}
		if msg := verr.Values()["password"]; msg == "" {
			t.Fatalf("Validate() fields = %v, want password key", verr.Values())
		}
	})

	t.Run("PasswordTooLong", func(t *testing.T) {
		// Arrange
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}

		// Act
		err := v.Validate(registerInput{Email: "user@example.com", Password: string(long)})

		// Assert
		if err == nil {
			t.Fatal("Validate() error = nil for 73-char password")
		}
	})
}
