package tags

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// FieldMD5 carries the STREAMINFO audio checksum as uppercase hex.
const FieldMD5 = "MD5"

// ReadFLAC returns the Vorbis comments of a FLAC file keyed by uppercase field
// name, plus FieldMD5 from STREAMINFO. When a field repeats, the first value
// wins.
func ReadFLAC(path string) (Set, error) {
	f, err := parseMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("parse flac %s: %w", path, err)
	}

	out := Set{}
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		for _, entry := range comment.Comments {
			key, value, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			key = strings.ToUpper(strings.TrimSpace(key))
			if _, exists := out[key]; exists || key == "" {
				continue
			}
			out[key] = value
		}
		break
	}

	info, err := f.GetStreamInfo()
	if err != nil {
		return nil, fmt.Errorf("read streaminfo: %w", err)
	}
	if len(info.AudioMD5) > 0 {
		out[FieldMD5] = strings.ToUpper(hex.EncodeToString(info.AudioMD5))
	}
	return out, nil
}

// parseMetadata reads only the metadata blocks. Audio frames are never
// needed here, and a file truncated after its metadata must still parse.
func parseMetadata(path string) (*flac.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return flac.ParseMetadata(bufio.NewReader(file))
}
