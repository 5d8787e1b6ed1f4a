// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// The goal is to keep business code independent from the underlying messaging
// system (Kafka, NATS, NSQ, etc). Handlers signal the outcome through their
// return value: nil acknowledges the message, an error requeues it when the
// broker supports redelivery.
package messaging
