package tags

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

// Field is one frame read back from an audio file.
type Field struct {
	Frame       string
	Description string
	Value       string
}

// Summary is the metadata read back from a tagged audio file.
type Summary struct {
	Format     string
	Title      string
	Album      string
	Artist     string
	Track      int
	TrackTotal int
	HasPicture bool
	Fields     []Field
}

// Inspect reads the tags of an MP3 (or FLAC) file.
func Inspect(path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return Summary{}, fmt.Errorf("read tags %s: %w", path, err)
	}

	track, total := meta.Track()
	summary := Summary{
		Format:     string(meta.Format()),
		Title:      meta.Title(),
		Album:      meta.Album(),
		Artist:     meta.Artist(),
		Track:      track,
		TrackTotal: total,
		HasPicture: meta.Picture() != nil,
	}

	raw := meta.Raw()
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		summary.Fields = append(summary.Fields, rawField(key, raw[key]))
	}
	return summary, nil
}

// UserText returns the value of the TXXX frame with the given description.
func (s Summary) UserText(description string) (string, bool) {
	for _, f := range s.Fields {
		if f.Frame == "TXXX" && f.Description == description {
			return f.Value, true
		}
	}
	return "", false
}

func rawField(key string, value any) Field {
	// Repeated frames come back as TXXX, TXXX_0, TXXX_1, ...
	frame := key
	if idx := strings.Index(key, "_"); idx == 4 {
		frame = key[:idx]
	}
	field := Field{Frame: frame}
	switch v := value.(type) {
	case string:
		field.Value = v
	case *tag.Comm:
		field.Description = v.Description
		field.Value = v.Text
	case *tag.UFID:
		field.Description = v.Provider
		field.Value = string(v.Identifier)
	case *tag.Picture:
		field.Description = v.MIMEType
		field.Value = fmt.Sprintf("%d bytes", len(v.Data))
	default:
		field.Value = fmt.Sprint(v)
	}
	return field
}
