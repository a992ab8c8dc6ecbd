// Package notifications publishes completion and failure messages to ntfy.
//
// NewService returns a no-op Service when no topic is configured, so callers
// publish unconditionally. Each Event has a fixed title, tag set, and message
// template filled from the Payload.
package notifications
