// Package logs reads the blacksys log file for the `blacksys logs` command.
//
// Last returns the trailing lines together with the byte offset of the end of
// the file; Since and Follow continue from such an offset, so a caller can
// print a tail and then stream new entries as a running batch appends them.
// Memory use is bounded by the number of lines requested.
package logs
