package messaging

import (
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	t.Run("UnknownDriver", func(t *testing.T) {
		// Act
		_, err := NewFromDriver("rabbitmq", FactoryOptions{})

		// Assert
		if !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("NewFromDriver() error = %v, want ErrUnknownDriver", err)
		}
	})

	t.Run("NATSRequiresURL", func(t *testing.T) {
		// Act
		_, err := NewFromDriver(DriverNATS, FactoryOptions{})

		// Assert
		if !errors.Is(err, ErrNATSURLRequired) {
			t.Fatalf("NewFromDriver() error = %v, want ErrNATSURLRequired", err)
		}
	})

	t.Run("KafkaRequiresBrokers", func(t *testing.T) {
		// Act
		_, err := NewFromDriver(DriverKafka, FactoryOptions{})

		// Assert
		if !errors.Is(err, ErrKafkaBrokersRequired) {
			t.Fatalf("NewFromDriver() error = %v, want ErrKafkaBrokersRequired", err)
		}
	})
}

func TestMessageHeader(t *testing.T) {
	// Arrange
	msg := Message{Headers: []Header{
		{Key: "correlation_id", Value: []byte("abc")},
		{Key: "event", Value: []byte("otp")},
	}}

	// Act & Assert
	if got := string(msg.Header("event")); got != "otp" {
		t.Fatalf("Header() = %q, want %q", got, "otp")
	}
	if got := msg.Header("missing"); got != nil {
		t.Fatalf("Header() = %v, want nil", got)
	}
}

func TestConsumeOptions(t *testing.T) {
	// Act
	co := newConsumeOptions(
		WithConcurrency(4),
		WithGroup("group-a"),
		WithChannel("channel-a"),
		WithQueueGroup("queue-a"),
		WithMaxInFlight(8),
		nil,
	)

	// Assert
	if co.concurrency != 4 || co.group != "group-a" || co.channel != "channel-a" ||
		co.queueGroup != "queue-a" || co.maxInFlight != 8 {
		t.Fatalf("newConsumeOptions() = %+v", co)
	}
}
