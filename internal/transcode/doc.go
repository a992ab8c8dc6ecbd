// Package transcode converts a folder of FLAC files to MP3.
//
// Each file is decoded by the flac binary and piped into lame through an OS
// pipe; both processes run concurrently and must exit zero. The resulting MP3
// is then tagged from the normalized FLAC metadata and, when the album has a
// cover, rewritten by ffmpeg with the image embedded. A failing file is
// recorded and the loop moves on to the next one.
package transcode
