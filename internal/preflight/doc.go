// Package preflight provides readiness checks for the directories and
// services blacksys depends on.
//
// The transcode command runs the directory checks before touching any album
// so a read-only output directory fails fast. "blacksys status" runs every
// check, including Steam store reachability, to display overall health.
package preflight
