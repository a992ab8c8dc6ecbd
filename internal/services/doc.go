// Package services defines the shared plumbing used to drive external tools.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so callers can tell a
//     missing or failing tool apart from bad input.
//   - The Executor abstraction that runs a binary, streams its output line by
//     line, and reports failures with the tail of stderr. Workflow packages
//     accept an Executor so tests can substitute a stub.
package services
