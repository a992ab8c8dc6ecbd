package tags

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"blacksys/internal/logging"
)

// Set maps uppercase FLAC field names to values for one track.
type Set map[string]string

// Clone returns a copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

var (
	albumFromFolder = regexp.MustCompile(`^.*?-\s*(.*?)\s*\(\d{4}\)\s*\[FLAC\]`)
	leadingTrackNo  = regexp.MustCompile(`^\d+\s*[.-]\s*`)
)

// fallbackTrackNumber is written when TRACKNUMBER cannot be parsed. Every
// affected track in an album ends up as 01.
const fallbackTrackNumber = "01"

// Normalize keeps the mapped, non-empty fields of raw and guarantees ALBUM and
// TITLE are present. ALBUM falls back to the album folder name, TITLE to the
// track file name without its leading number. TRACKNUMBER is zero-padded to
// two digits. Normalize never fails; every repair is logged as a warning.
func Normalize(raw Set, albumDir, trackPath string, logger *slog.Logger) Set {
	if logger == nil {
		logger = logging.NewNop()
	}
	out := make(Set, len(raw)+2)
	for field, value := range raw {
		key := strings.ToUpper(strings.TrimSpace(field))
		if _, ok := frames[key]; !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out[key] = value
	}
	// ALBUMARTIST and BAND share TPE2; ALBUMARTIST wins.
	if out["ALBUMARTIST"] != "" {
		delete(out, "BAND")
	}

	if out["ALBUM"] == "" {
		out["ALBUM"] = AlbumFromFolder(filepath.Base(albumDir))
		logging.WarnWithContext(logger, "album tag missing; using folder name", "tag_album_fallback",
			logging.String("track", filepath.Base(trackPath)),
			logging.String("album", out["ALBUM"]),
			logging.String(logging.FieldImpact, "album title derived from folder"),
		)
	}
	if out["TITLE"] == "" {
		out["TITLE"] = TitleFromFile(trackPath)
		logging.WarnWithContext(logger, "title tag missing; using file name", "tag_title_fallback",
			logging.String("track", filepath.Base(trackPath)),
			logging.String("title", out["TITLE"]),
			logging.String(logging.FieldImpact, "track title derived from file name"),
		)
	}

	if value, ok := out["TRACKNUMBER"]; ok {
		number, ok := parseTrackNumber(value)
		if ok {
			out["TRACKNUMBER"] = number
		} else {
			out["TRACKNUMBER"] = fallbackTrackNumber
			logging.WarnWithContext(logger, "non-numeric track number replaced", "tag_tracknumber_fallback",
				logging.String("track", filepath.Base(trackPath)),
				logging.String("value", value),
				logging.String(logging.FieldImpact, "track numbered "+fallbackTrackNumber+"; numbering may collide"),
				logging.String(logging.FieldErrorHint, "fix TRACKNUMBER in the source FLAC"),
			)
		}
	}
	return out
}

// AlbumFromFolder derives an album title from a folder named like
// "Artist - Album (2020) [FLAC]". Other names have "[FLAC]" removed.
func AlbumFromFolder(folder string) string {
	if m := albumFromFolder.FindStringSubmatch(folder); m != nil {
		return m[1]
	}
	return strings.TrimSpace(strings.ReplaceAll(folder, "[FLAC]", ""))
}

// TitleFromFile derives a track title from a file path, dropping the
// extension and a leading "NN - " or "NN. " prefix.
func TitleFromFile(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return leadingTrackNo.ReplaceAllString(stem, "")
}

// parseTrackNumber accepts "7", "07", and "7/12" forms.
func parseTrackNumber(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if idx := strings.Index(value, "/"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return "", false
	}
	return fmt.Sprintf("%02d", n), true
}
