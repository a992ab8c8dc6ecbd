package cover_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blacksys/internal/cover"
	"blacksys/internal/testsupport"
)

// extractExecutor mimics ffmpeg cover extraction: the output path is the
// argument that follows "copy".
type extractExecutor struct {
	image []byte
	calls int
	args  [][]string
}

func (e *extractExecutor) Run(_ context.Context, _ string, args []string, _ func(string)) error {
	e.calls++
	e.args = append(e.args, append([]string(nil), args...))
	if len(e.image) == 0 {
		return errors.New("no video stream")
	}
	for i, arg := range args {
		if arg == "copy" && i+1 < len(args) {
			return os.WriteFile(args[i+1], e.image, 0o644)
		}
	}
	return errors.New("no output argument")
}

func newAlbum(t *testing.T, fixture testsupport.FLACFixture, extra ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Artist - Album (2020) [FLAC]")
	testsupport.WriteFLAC(t, filepath.Join(dir, "02 - Second.flac"), testsupport.FLACFixture{})
	testsupport.WriteFLAC(t, filepath.Join(dir, "01 - First.flac"), fixture)
	for _, name := range extra {
		testsupport.WriteFile(t, filepath.Join(dir, name), 16)
	}
	return dir
}

func TestResolvePrefersFFmpegExtraction(t *testing.T) {
	dir := newAlbum(t, testsupport.FLACFixture{}, "back.png")
	exec := &extractExecutor{image: []byte("JPEGDATA")}
	r := cover.NewResolver("ffmpeg", cover.WithExecutor(exec))

	path, ok := r.Resolve(context.Background(), dir)
	if !ok {
		t.Fatal("expected cover")
	}
	if path != filepath.Join(dir, "cover.jpg") {
		t.Fatalf("unexpected path %q", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "JPEGDATA" {
		t.Fatalf("unexpected cover content %q", data)
	}
	if got := exec.args[0][1]; filepath.Base(got) != "01 - First.flac" {
		t.Fatalf("expected first flac by name, got %q", got)
	}
}

func TestResolveFallsBackToPictureBlock(t *testing.T) {
	dir := newAlbum(t, testsupport.FLACFixture{Picture: []byte("EMBEDDED")})
	r := cover.NewResolver("ffmpeg", cover.WithExecutor(&extractExecutor{}))

	path, ok := r.Resolve(context.Background(), dir)
	if !ok {
		t.Fatal("expected cover from picture block")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "EMBEDDED" {
		t.Fatalf("unexpected cover content %q", data)
	}
}

func TestResolveCopiesNonJPGFolderImage(t *testing.T) {
	dir := newAlbum(t, testsupport.FLACFixture{}, "scan.png", "zz.jpg")
	r := cover.NewResolver("ffmpeg", cover.WithExecutor(&extractExecutor{}))

	path, ok := r.Resolve(context.Background(), dir)
	if !ok {
		t.Fatal("expected cover")
	}
	if filepath.Base(path) != "cover.jpg" {
		t.Fatalf("expected canonical copy, got %q", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.png")); err != nil {
		t.Fatalf("original image should remain: %v", err)
	}
}

func TestResolveUsesJPGFolderImageInPlace(t *testing.T) {
	dir := newAlbum(t, testsupport.FLACFixture{}, "Folder.jpg")
	r := cover.NewResolver("ffmpeg", cover.WithExecutor(&extractExecutor{}))

	path, ok := r.Resolve(context.Background(), dir)
	if !ok || filepath.Base(path) != "Folder.jpg" {
		t.Fatalf("expected Folder.jpg, got %q (%v)", path, ok)
	}
	if _, err := os.Stat(filepath.Join(dir, "cover.jpg")); !os.IsNotExist(err) {
		t.Fatalf("no canonical copy expected, stat err=%v", err)
	}
}

func TestResolveReportsNoneWhenNothingFound(t *testing.T) {
	dir := newAlbum(t, testsupport.FLACFixture{})
	r := cover.NewResolver("ffmpeg", cover.WithExecutor(&extractExecutor{}))
	if path, ok := r.Resolve(context.Background(), dir); ok {
		t.Fatalf("expected no cover, got %q", path)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	for name, exec := range map[string]*extractExecutor{
		"extracted": {image: []byte("JPEGDATA")},
		"folder":    {},
	} {
		t.Run(name, func(t *testing.T) {
			dir := newAlbum(t, testsupport.FLACFixture{}, "art.png")
			r := cover.NewResolver("ffmpeg", cover.WithExecutor(exec))
			first, ok1 := r.Resolve(context.Background(), dir)
			second, ok2 := r.Resolve(context.Background(), dir)
			if !ok1 || !ok2 || first != second {
				t.Fatalf("expected same path twice, got %q and %q", first, second)
			}
		})
	}
}

func TestEmbeddedPicturePrefersFrontCover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.flac")
	testsupport.WriteFLAC(t, path, testsupport.FLACFixture{Picture: []byte("FRONT")})
	data, err := cover.EmbeddedPicture(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "FRONT" {
		t.Fatalf("unexpected picture %q", data)
	}
}

func TestEmbeddedPictureWithoutAudioFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.flac")
	testsupport.WriteFLAC(t, path, testsupport.FLACFixture{})
	data, err := cover.EmbeddedPicture(path)
	if err != nil {
		t.Fatalf("EmbeddedPicture: %v", err)
	}
	if data != nil {
		t.Fatalf("expected no picture, got %q", data)
	}
}
