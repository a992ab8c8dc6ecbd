package tags

import (
	"sort"
	"strings"
)

// Kind selects how a field is encoded as an ID3 frame.
type Kind int

const (
	// KindText is a plain text information frame (TALB, TIT2, ...).
	KindText Kind = iota
	// KindComment is a COMM frame.
	KindComment
	// KindUserText is a TXXX frame keyed by its description.
	KindUserText
	// KindUniqueFileID is a UFID frame keyed by its owner.
	KindUniqueFileID
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindUserText:
		return "user_text"
	case KindUniqueFileID:
		return "ufid"
	default:
		return "unknown"
	}
}

// Frame describes the ID3 frame a FLAC field is written to. Description is
// the TXXX description, the COMM description, or the UFID owner.
type Frame struct {
	ID          string
	Description string
	Kind        Kind
}

const musicBrainzOwner = "http://musicbrainz.org"

func text(id string) Frame { return Frame{ID: id, Kind: KindText} }

func userText(desc string) Frame { return Frame{ID: "TXXX", Description: desc, Kind: KindUserText} }

var frames = map[string]Frame{
	"ALBUM":       text("TALB"),
	"ALBUMARTIST": text("TPE2"),
	"ARTIST":      text("TPE1"),
	"BAND":        text("TPE2"),
	"BPM":         text("TBPM"),
	"COMMENT":     {ID: "COMM", Kind: KindComment},
	"COMPILATION": text("TCMP"),
	"COMPOSER":    text("TCOM"),
	"CONDUCTOR":   text("TPE3"),
	"DATE":        text("TYER"),
	"DISCNUMBER":  text("TPOS"),
	"GENRE":       text("TCON"),
	"ISRC":        text("TSRC"),
	"LYRICIST":    text("TEXT"),
	"PUBLISHER":   text("TPUB"),
	"TITLE":       text("TIT2"),
	"TRACKNUMBER": text("TRCK"),

	"MUSICBRAINZ_ALBUMARTISTID": userText("MusicBrainz Album Artist Id"),
	"MUSICBRAINZ_ALBUMID":       userText("MusicBrainz Album Id"),
	"MUSICBRAINZ_ALBUMSTATUS":   userText("MusicBrainz Album Status"),
	"MUSICBRAINZ_ALBUMTYPE":     userText("MusicBrainz Album Type"),
	"MUSICBRAINZ_ARTISTID":      userText("MusicBrainz Artist Id"),
	"MUSICBRAINZ_SORTNAME":      userText("MusicBrainz Sortname"),
	"MUSICBRAINZ_TRACKID":       {ID: "UFID", Description: musicBrainzOwner, Kind: KindUniqueFileID},
	"MUSICBRAINZ_TRMID":         userText("MusicBrainz TRM Id"),
	"MD5":                       userText("MD5"),
	"REPLAYGAIN_TRACK_PEAK":     userText("REPLAYGAIN_TRACK_PEAK"),
	"REPLAYGAIN_TRACK_GAIN":     userText("REPLAYGAIN_TRACK_GAIN"),
	"REPLAYGAIN_ALBUM_PEAK":     userText("REPLAYGAIN_ALBUM_PEAK"),
	"REPLAYGAIN_ALBUM_GAIN":     userText("REPLAYGAIN_ALBUM_GAIN"),
}

// Lookup returns the frame for a FLAC field name. Field names are matched
// case-insensitively; unknown fields report false.
func Lookup(field string) (Frame, bool) {
	f, ok := frames[strings.ToUpper(strings.TrimSpace(field))]
	return f, ok
}

// Fields returns every mapped field name in sorted order.
func Fields() []string {
	out := make([]string, 0, len(frames))
	for name := range frames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
