package config

import (
	"testing"
	"time"
)

func TestViperFromBytes(t *testing.T) {
	yaml := []byte(`
server:
  port: 8081
  debug: true
jwt:
  secret: a2V5
  ttl: 60
mail:
  hosts: smtp-a:25,smtp-b:25
  headers: from:noreply,reply:support
`)

	// Arrange
	cfg, err := NewViperFromBytes("yaml", yaml)
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	defer cfg.Close()

	t.Run("TypedGetters", func(t *testing.T) {
		if got := cfg.GetInt("server.port"); got != 8081 {
			t.Fatalf("GetInt() = %d, want 8081", got)
		}
		if !cfg.GetBool("server.debug") {
			t.Fatal("GetBool() = false, want true")
		}
		if got := cfg.GetMinute("jwt.ttl"); got != time.Hour {
			t.Fatalf("GetMinute() = %v, want 1h", got)
		}
	})

	t.Run("Binary", func(t *testing.T) {
		if got := string(cfg.GetBinary("jwt.secret")); got != "key" {
			t.Fatalf("GetBinary() = %q, want %q", got, "key")
		}
	})

	t.Run("Array", func(t *testing.T) {
		got := cfg.GetArray("mail.hosts")
		if len(got) != 2 || got[0] != "smtp-a:25" {
			t.Fatalf("GetArray() = %v", got)
		}
	})

	t.Run("Map", func(t *testing.T) {
		got := cfg.GetMap("mail.headers")
		if got["from"] != "noreply" || got["reply"] != "support" {
			t.Fatalf("GetMap() = %v", got)
		}
	})

	t.Run("MissingKeyIsZero", func(t *testing.T) {
		if got := cfg.GetString("does.not.exist"); got != "" {
			t.Fatalf("GetString() = %q, want empty", got)
		}
	})

	t.Run("RequiresConfigType", func(t *testing.T) {
		if _, err := NewViperFromBytes("  ", nil); err == nil {
			t.Fatal("NewViperFromBytes() error = nil for empty type")
		}
	})
}
