// Package main hosts the blacksys CLI entrypoint and command graph.
//
// Running blacksys with no subcommand starts the interactive FLAC to MP3
// batch. Other commands manage the tracker list, drive the Steam download,
// library replacement and packaging steps, and inspect configuration, tool
// availability, run history, and written MP3 tags.
//
// Commands only wire internal packages together; the behavior lives in
// internal/.
package main
