package instrument

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		ctx := SetCorrelationID(context.Background(), "cid-123")

		// Act & Assert
		if got := GetCorrelationID(ctx); got != "cid-123" {
			t.Fatalf("GetCorrelationID() = %q, want %q", got, "cid-123")
		}
	})

	t.Run("MissingIsEmpty", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Fatalf("GetCorrelationID() = %q, want empty", got)
		}
	})
}

func TestMaskAttr(t *testing.T) {
	maskKeys := buildMaskKeys([]string{"password", " OtpCode "})

	t.Run("TopLevelKey", func(t *testing.T) {
		// Act
		got := maskAttr(slog.String("password", "hunter2"), maskKeys)

		// Assert
		if got.Value.String() != "***" {
			t.Fatalf("maskAttr() = %q, want masked", got.Value.String())
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got := maskAttr(slog.String("Password", "hunter2"), maskKeys)
		if got.Value.String() != "***" {
			t.Fatalf("maskAttr() = %q, want masked", got.Value.String())
		}
	})

	t.Run("NestedJSONString", func(t *testing.T) {
		// Act
		got := maskAttr(slog.String("body", `{"email":"a@b.c","password":"hunter2"}`), maskKeys)

		// Assert
		if !strings.Contains(got.Value.String(), `"password":"***"`) {
			t.Fatalf("maskAttr() = %q, want masked password", got.Value.String())
		}
		if !strings.Contains(got.Value.String(), "a@b.c") {
			t.Fatalf("maskAttr() = %q, want email untouched", got.Value.String())
		}
	})

	t.Run("MapValue", func(t *testing.T) {
		// Act
		got := maskAttr(slog.Any("fields", map[string]string{"otpcode": "123456", "email": "a@b.c"}), maskKeys)

		// Assert
		m, ok := got.Value.Any().(map[string]any)
		if !ok {
			t.Fatalf("maskAttr() value type = %T", got.Value.Any())
		}
		if m["otpcode"] != "***" {
			t.Fatalf("maskAttr() otpcode = %v, want masked", m["otpcode"])
		}
	})

	t.Run("UnmaskedPassThrough", func(t *testing.T) {
		got := maskAttr(slog.String("email", "a@b.c"), maskKeys)
		if got.Value.String() != "a@b.c" {
			t.Fatalf("maskAttr() = %q, want unchanged", got.Value.String())
		}
	})
}

func TestNewNoop(t *testing.T) {
	// Arrange & Act
	inst := NewNoop()

	// Assert
	if inst.Tracer("t") == nil || inst.Meter("m") == nil {
		t.Fatal("NewNoop() returned nil providers")
	}
	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
