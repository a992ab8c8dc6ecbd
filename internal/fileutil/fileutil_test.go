package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerifiedKeepsMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "game.bin")
	dst := filepath.Join(dir, "game.bin.backup")
	if err := os.WriteFile(src, []byte("payload"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("mode = %o, want 755", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestListFilesSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"02 b.flac", "01 a.FLAC", "cover.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.flac"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(dir, ".flac")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "01 a.FLAC" || filepath.Base(files[1]) != "02 b.flac" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestCopyMatchingIsRecursive(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "scans"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"folder.jpg":      "a",
		"scans/back.PNG":  "b",
		"scans/notes.txt": "c",
		"01 - Track.flac": "d",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(src, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := CopyMatching(src, dst, ".jpg", ".png")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("copied %d files, want 2", n)
	}
	if !NonEmptyFile(filepath.Join(dst, "scans", "back.PNG")) {
		t.Fatal("expected nested image to be copied")
	}
	if Exists(filepath.Join(dst, "scans", "notes.txt")) {
		t.Fatal("unexpected non-image copy")
	}
}
