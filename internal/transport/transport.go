// SPDX-License-Identifier: MIT
// Package transport carries playback status events to external observers.
package transport

// Transport defines a generic interface for sending status events.
// Implementations must be thread-safe and must never block the sender:
// events are dropped, not queued indefinitely, under back-pressure.
type Transport interface {
	Send(data any) error
	Close() error
}
