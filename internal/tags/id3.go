package tags

import (
	"fmt"
	"sort"

	"github.com/bogem/id3v2/v2"
)

// commentLanguage is the ISO-639-2 language written on COMM frames.
const commentLanguage = "eng"

type frameWriter func(tag *id3v2.Tag, frame Frame, field, value string)

// writers dispatches on frame kind. ID3v2.3 has no UTF-8 text encoding, so
// text is written as UTF-16 with BOM.
var writers = map[Kind]frameWriter{
	KindText: func(tag *id3v2.Tag, frame Frame, _, value string) {
		tag.AddTextFrame(frame.ID, id3v2.EncodingUTF16, value)
	},
	KindComment: func(tag *id3v2.Tag, frame Frame, _, value string) {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF16,
			Language:    commentLanguage,
			Description: frame.Description,
			Text:        value,
		})
	},
	KindUserText: func(tag *id3v2.Tag, frame Frame, field, value string) {
		desc := frame.Description
		if desc == "" {
			desc = field
		}
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF16,
			Description: desc,
			Value:       value,
		})
	},
	KindUniqueFileID: func(tag *id3v2.Tag, frame Frame, _, value string) {
		tag.AddUFIDFrame(id3v2.UFIDFrame{
			OwnerIdentifier: frame.Description,
			Identifier:      []byte(value),
		})
	},
}

// ID3Writer replaces the ID3 tag of an MP3 file with the mapped fields of a Set.
type ID3Writer struct{}

// NewID3Writer returns a writer producing ID3v2.3 tags.
func NewID3Writer() *ID3Writer {
	return &ID3Writer{}
}

// Write clears every existing frame in path and writes one frame per mapped
// field in set. Unmapped fields are ignored.
func (w *ID3Writer) Write(path string, set Set) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingUTF16)

	fields := make([]string, 0, len(set))
	for field := range set {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		frame, ok := Lookup(field)
		if !ok {
			continue
		}
		write, ok := writers[frame.Kind]
		if !ok {
			return fmt.Errorf("no writer for %s frame kind %s", frame.ID, frame.Kind)
		}
		write(tag, frame, field, set[field])
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}
