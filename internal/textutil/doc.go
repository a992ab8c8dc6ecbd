// Package textutil provides the name transformations shared by the transcode
// and Steam workflows: filesystem-safe sanitizing, torrent name tokens, and
// case-folded sort keys.
package textutil
