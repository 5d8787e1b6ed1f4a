package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected broker.
var ErrUnsupported = errors.New("pkgmessage: unsupported operation")

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject/queue).
type Publisher interface {
	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// Consumer consumes messages from a source (topic/subject/queue).
type Consumer interface {
	// Consume starts consuming messages from the source and blocks until the
	// context is canceled.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// A nil return acknowledges the message. A non-nil return requeues it when
// the broker supports redelivery; otherwise the message is dropped and the
// error is logged.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning; other brokers ignore it.
	Key []byte

	// Headers support arbitrary binary values and duplicate keys.
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	// Key is the header name.
	Key string
	// Value is the header value.
	Value []byte
}

// Message is a broker-agnostic received message.
type Message struct {
	// ID is the broker-assigned message ID, when the broker exposes one.
	ID string
	// Source is the topic or subject the message arrived on.
	Source string
	// Body is the message payload.
	Body []byte
	// Headers are the message headers.
	Headers []Header
	// Attempts counts delivery attempts, when the broker exposes it.
	Attempts uint16
	// Timestamp is when the broker accepted or delivered the message.
	Timestamp time.Time
}

// Header returns the first header value for key, or nil when absent.
func (m Message) Header(key string) []byte {
	for _, h := range m.Headers {
		if h.Key == key {
			return h.Value
		}
	}
	return nil
}
