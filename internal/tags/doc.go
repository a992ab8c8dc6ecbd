// Package tags carries FLAC metadata across to ID3v2.3 MP3 tags.
//
// A Set is read from a FLAC file's Vorbis comment block (plus the STREAMINFO
// audio MD5), repaired by Normalize so ALBUM and TITLE are never empty, and
// written by ID3Writer through a static field to frame table. Inspect reads the
// written tags back for verification.
package tags
