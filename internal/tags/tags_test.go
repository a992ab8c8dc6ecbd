package tags_test

import (
	"os"
	"path/filepath"
	"testing"

	"blacksys/internal/tags"
	"blacksys/internal/testsupport"
)

func TestReadFLACReturnsCommentsAndMD5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 - Intro.flac")
	md5 := [16]byte{0xde, 0xad, 0xbe, 0xef}
	testsupport.WriteFLAC(t, path, testsupport.FLACFixture{
		Comments: [][2]string{
			{"album", "Great Album"},
			{"TITLE", "Intro"},
			{"ARTIST", "First"},
			{"ARTIST", "Second"},
		},
		MD5: md5,
	})

	set, err := tags.ReadFLAC(path)
	if err != nil {
		t.Fatalf("ReadFLAC: %v", err)
	}
	if set["ALBUM"] != "Great Album" || set["TITLE"] != "Intro" {
		t.Fatalf("unexpected tags: %v", set)
	}
	if set["ARTIST"] != "First" {
		t.Fatalf("expected first ARTIST value, got %q", set["ARTIST"])
	}
	if set[tags.FieldMD5] != "DEADBEEF000000000000000000000000" {
		t.Fatalf("MD5 = %q", set[tags.FieldMD5])
	}
}

func TestReadFLACRejectsNonFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.flac")
	if err := os.WriteFile(path, []byte("not a flac"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := tags.ReadFLAC(path); err == nil {
		t.Fatal("expected error for non-FLAC input")
	}
}

func TestID3WriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 - Intro.mp3")
	if err := os.WriteFile(path, []byte("PCMDATA"), 0o644); err != nil {
		t.Fatal(err)
	}

	set := tags.Set{
		"ALBUM":               "Great Album",
		"TITLE":               "Intro",
		"ARTIST":              "Ärtist",
		"TRACKNUMBER":         "03",
		"MD5":                 "ABCDEF",
		"COMMENT":             "ripped",
		"MUSICBRAINZ_TRACKID": "mbid-123",
		"ENCODER":             "ignored",
	}
	if err := tags.NewID3Writer().Write(path, set); err != nil {
		t.Fatalf("Write: %v", err)
	}

	summary, err := tags.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if summary.Album != "Great Album" || summary.Title != "Intro" || summary.Artist != "Ärtist" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Track != 3 {
		t.Fatalf("track = %d, want 3", summary.Track)
	}
	if v, ok := summary.UserText("MD5"); !ok || v != "ABCDEF" {
		t.Fatalf("MD5 TXXX = %q (%v)", v, ok)
	}

	var sawUFID, sawComment bool
	for _, f := range summary.Fields {
		switch f.Frame {
		case "UFID":
			sawUFID = f.Description == "http://musicbrainz.org" && f.Value == "mbid-123"
		case "COMM":
			sawComment = f.Value == "ripped"
		}
	}
	if !sawUFID || !sawComment {
		t.Fatalf("missing UFID/COMM frames: %+v", summary.Fields)
	}
}

func TestID3WriterReplacesExistingFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.mp3")
	if err := os.WriteFile(path, []byte("PCMDATA"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := tags.NewID3Writer()
	if err := w.Write(path, tags.Set{"ALBUM": "Old", "TITLE": "Old", "GENRE": "Rock"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(path, tags.Set{"ALBUM": "New", "TITLE": "New"}); err != nil {
		t.Fatal(err)
	}
	summary, err := tags.Inspect(path)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Album != "New" {
		t.Fatalf("album = %q", summary.Album)
	}
	for _, f := range summary.Fields {
		if f.Frame == "TCON" {
			t.Fatalf("stale genre frame survived: %+v", f)
		}
	}
}

func TestID3WriterMissingFile(t *testing.T) {
	if err := tags.NewID3Writer().Write(filepath.Join(t.TempDir(), "missing.mp3"), tags.Set{"TITLE": "x"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFLACWithoutAudioFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "02 - Cut Short.flac")
	testsupport.WriteFLAC(t, path, testsupport.FLACFixture{
		Comments: [][2]string{{"TITLE", "Cut Short"}},
	})

	set, err := tags.ReadFLAC(path)
	if err != nil {
		t.Fatalf("ReadFLAC: %v", err)
	}
	if set["TITLE"] != "Cut Short" {
		t.Fatalf("unexpected tags: %v", set)
	}
}
