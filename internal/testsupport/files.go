package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// FLACFixture describes a minimal FLAC file: STREAMINFO, an optional Vorbis
// comment block, an optional front cover, and an arbitrary audio payload.
type FLACFixture struct {
	Comments [][2]string
	MD5      [16]byte
	Picture  []byte
	// Payload is appended after the metadata blocks. The fake flac decoder
	// fails on payloads containing "CORRUPT".
	Payload []byte
}

// WriteFLAC writes fixture to path.
func WriteFLAC(t testing.TB, path string, fixture FLACFixture) {
	t.Helper()

	blocks := []flac.MetaDataBlock{{Type: flac.StreamInfo, Data: streamInfo(fixture.MD5)}}
	if len(fixture.Comments) > 0 {
		comment := flacvorbis.New()
		for _, kv := range fixture.Comments {
			if err := comment.Add(kv[0], kv[1]); err != nil {
				t.Fatalf("add vorbis comment %s: %v", kv[0], err)
			}
		}
		blocks = append(blocks, comment.Marshal())
	}
	if len(fixture.Picture) > 0 {
		// Built directly: NewFromImageData decodes the image, and fixtures
		// carry marker bytes rather than real JPEGs.
		pic := flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureTypeFrontCover,
			MIME:        "image/jpeg",
			Description: "Front",
			ImageData:   fixture.Picture,
		}
		blocks = append(blocks, pic.Marshal())
	}

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	for i, block := range blocks {
		header := byte(block.Type)
		if i == len(blocks)-1 {
			header |= 0x80
		}
		size := len(block.Data)
		buf.Write([]byte{header, byte(size >> 16), byte(size >> 8), byte(size)})
		buf.Write(block.Data)
	}
	buf.Write(fixture.Payload)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write flac %s: %v", path, err)
	}
}

// streamInfo encodes a 44.1 kHz, stereo, 16-bit STREAMINFO block with zero
// samples and the given MD5.
func streamInfo(md5 [16]byte) []byte {
	data := make([]byte, 34)
	binary.BigEndian.PutUint16(data[0:2], 4096)
	binary.BigEndian.PutUint16(data[2:4], 4096)
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36
	binary.BigEndian.PutUint64(data[10:18], packed)
	copy(data[18:], md5[:])
	return data
}
