// Package album runs the work decided for a single FLAC album: one
// transcode per requested preset, optional torrent creation for each
// successful output, and optional removal of the source once every preset
// succeeded.
//
// Decisions live in Job and Plan, which are pure. The Orchestrator performs
// the side effects through small interfaces so tests can substitute the
// transcode pipeline and torrent creator.
package album
