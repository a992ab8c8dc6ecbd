package torrent_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blacksys/internal/services"
	"blacksys/internal/testsupport"
	"blacksys/internal/torrent"
)

type recordingExecutor struct {
	binary string
	args   []string
	err    error
	write  bool
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string, _ func(string)) error {
	r.binary = binary
	r.args = append([]string(nil), args...)
	if r.write {
		for i, a := range args {
			if a == "-o" {
				_ = os.WriteFile(args[i+1], []byte("d8:announce"), 0o644)
			}
		}
	}
	return r.err
}

func TestArgsForTrackerTorrent(t *testing.T) {
	c := torrent.NewCreator("mktorrent")
	got := strings.Join(c.Args("/mp3/Album", "/t/a.torrent", []string{"https://a", "https://b"}), " ")
	want := "-p -a https://a,https://b -l 21 -o /t/a.torrent /mp3/Album"
	if got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestArgsWithSourceAndNoAnnounce(t *testing.T) {
	c := torrent.NewCreator("mktorrent", torrent.WithSource("GGn"), torrent.WithPieceLength(22))
	got := strings.Join(c.Args("/g/Game", "/t/g.torrent", nil), " ")
	want := "-p -l 22 -s GGn -o /t/g.torrent /g/Game"
	if got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestCreateSkipsExistingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.torrent")
	testsupport.WriteFile(t, out, 4)
	exec := &recordingExecutor{}
	created, err := torrent.NewCreator("mktorrent", torrent.WithExecutor(exec)).Create(context.Background(), "/f", out, nil)
	if err != nil || created {
		t.Fatalf("expected skip, got %v %v", created, err)
	}
	if exec.binary != "" {
		t.Fatal("mktorrent should not run")
	}
}

func TestCreateRunsMktorrent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "x.torrent")
	exec := &recordingExecutor{write: true}
	created, err := torrent.NewCreator("/usr/bin/mktorrent", torrent.WithExecutor(exec)).Create(context.Background(), "/f", out, []string{"u"})
	if err != nil || !created {
		t.Fatalf("Create = %v, %v", created, err)
	}
	if exec.binary != "/usr/bin/mktorrent" {
		t.Fatalf("binary = %q", exec.binary)
	}
}

func TestCreateWrapsFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.torrent")
	exec := &recordingExecutor{err: errors.New("boom")}
	_, err := torrent.NewCreator("mktorrent", torrent.WithExecutor(exec)).Create(context.Background(), "/f", out, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	got := torrent.FileName("My Tracker", "Artist - Album (2020) [MP3 V0]")
	if got != "My_Tracker_Artist_-_Album_(2020)_[MP3_V0].torrent" {
		t.Fatalf("FileName = %q", got)
	}
}
