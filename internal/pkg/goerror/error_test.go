package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError(t *testing.T) {
	t.Run("ServerHidesUnderlying", func(t *testing.T) {
		// Arrange
		cause := errors.New("pgx: connection refused")

		// Act
		err := NewServer(cause)

		// Assert
		var gerr *Error
		if !errors.As(err, &gerr) {
			t.Fatalf("error type = %T", err)
		}
		if gerr.Msg() != "Internal server error" {
			t.Fatalf("Msg() = %q", gerr.Msg())
		}
		if !errors.Is(err, cause) {
			t.Fatal("lost underlying error")
		}
		if gerr.StatusCode() != http.StatusInternalServerError {
			t.Fatalf("StatusCode() = %d", gerr.StatusCode())
		}
	})

	t.Run("StatusMapping", func(t *testing.T) {
		tests := []struct {
			code Code
			want int
		}{
			{CodeInvalidFormat, http.StatusBadRequest},
			{CodeInvalidInput, http.StatusUnprocessableEntity},
			{CodeNotFound, http.StatusNotFound},
			{CodeConflict, http.StatusConflict},
			{CodeUnauthorized, http.StatusUnauthorized},
			{CodeExpired, http.StatusUnauthorized},
			{CodeForbidden, http.StatusForbidden},
			{CodeTimeout, http.StatusRequestTimeout},
		}

		for _, tt := range tests {
			err := NewBusiness("x", tt.code)
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("error type = %T", err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode(%s) = %d, want %d", tt.code, got, tt.want)
			}
		}
	})

	t.Run("InvalidInputFields", func(t *testing.T) {
		// Act
		err := NewInvalidInput(nil, "email", "must be valid")

		// Assert
		var gerr *Error
		if !errors.As(err, &gerr) {
			t.Fatalf("error type = %T", err)
		}
		if gerr.Fields()["email"] != "must be valid" {
			t.Fatalf("Fields() = %v", gerr.Fields())
		}
	})
}
