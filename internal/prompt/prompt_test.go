package prompt_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"blacksys/internal/album"
	"blacksys/internal/batch"
	"blacksys/internal/crack"
	"blacksys/internal/prompt"
	"blacksys/internal/trackers"
)

func newPrompter(input string) (*prompt.Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return prompt.New(strings.NewReader(input), &out), &out
}

func seededStore(t *testing.T, names ...string) *trackers.Store {
	t.Helper()
	store := trackers.NewStore(filepath.Join(t.TempDir(), "trackers.json"))
	for _, name := range names {
		if _, err := store.Add(name, "https://"+strings.ToLower(name)+"/announce"); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestYesNoRepeatsUntilValid(t *testing.T) {
	p, out := newPrompter("maybe\nY\n")
	ok, err := p.YesNo("Continue?")
	if err != nil || !ok {
		t.Fatalf("YesNo = %v, %v", ok, err)
	}
	if !strings.Contains(out.String(), "Please enter y or n") {
		t.Fatalf("expected retry hint, got %q", out.String())
	}
}

func TestYesNoEndOfInput(t *testing.T) {
	p, _ := newPrompter("")
	if _, err := p.YesNo("Continue?"); !errors.Is(err, prompt.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestConfirmDefault(t *testing.T) {
	p, _ := newPrompter("\nno\n")
	if ok, _ := p.Confirm("Download?", true); !ok {
		t.Fatal("empty answer should take the default")
	}
	if ok, _ := p.Confirm("Download?", true); ok {
		t.Fatal("expected no")
	}
}

func TestChoiceClampsAndDefaults(t *testing.T) {
	p, _ := newPrompter("9\n\n")
	idx, err := p.Choice("Pick", []string{"a", "b", "c"}, 1)
	if err != nil || idx != 2 {
		t.Fatalf("Choice = %d, %v", idx, err)
	}
	idx, _ = p.Choice("Pick", []string{"a", "b", "c"}, 1)
	if idx != 1 {
		t.Fatalf("expected default, got %d", idx)
	}
}

func TestSelectTrackersSingleAndAll(t *testing.T) {
	store := seededStore(t, "Beta", "alpha")

	p, out := newPrompter("x\n2\n")
	selected, err := p.SelectTrackers(store)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 1 || selected[0].Name != "Beta" {
		t.Fatalf("unexpected selection %v", selected)
	}
	if !strings.Contains(out.String(), "1 - alpha\n2 - Beta\n8 - All\n9 - Add\n0 - Manage") {
		t.Fatalf("unexpected menu %q", out.String())
	}

	p, _ = newPrompter("8\n")
	all, err := p.SelectTrackers(store)
	if err != nil || len(all) != 2 {
		t.Fatalf("All = %v, %v", all, err)
	}
}

func TestSelectTrackersAddAndManage(t *testing.T) {
	store := seededStore(t, "Old")
	// Add "New", then manage: delete #2 ("Old"), back, then pick 1.
	p, out := newPrompter("9\nNew\nhttps://new/announce\n0\n2\n0\n1\n")
	selected, err := p.SelectTrackers(store)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 1 || selected[0].Name != "New" {
		t.Fatalf("unexpected selection %v", selected)
	}
	if !strings.Contains(out.String(), "Deleted tracker: Old") {
		t.Fatalf("expected deletion message, got %q", out.String())
	}
	list, _ := store.List()
	if len(list) != 1 {
		t.Fatalf("expected one tracker left, got %v", list)
	}
}

func TestAlbumChooser(t *testing.T) {
	store := seededStore(t, "Alpha")
	p, _ := newPrompter("7\n3\ny\n1\nn\n")
	chooser := prompt.AlbumChooser{Prompter: p, Trackers: store}

	job, err := chooser.Choose(context.Background(), batch.Album{Name: "A [FLAC]", Path: "/in/A [FLAC]"})
	if err != nil {
		t.Fatal(err)
	}
	if job.Choice != album.ChoiceBoth || !job.Torrent || job.Delete || len(job.Trackers) != 1 {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestAlbumChooserSkipAsksNothingElse(t *testing.T) {
	p, out := newPrompter("4\n")
	job, err := prompt.AlbumChooser{Prompter: p}.Choose(context.Background(), batch.Album{Name: "A", Path: "/a"})
	if err != nil || job.Choice != album.ChoiceSkip {
		t.Fatalf("unexpected job %+v, %v", job, err)
	}
	if strings.Contains(out.String(), ".torrent") {
		t.Fatal("skip should not ask about torrents")
	}
}

func TestArchResolver(t *testing.T) {
	p, _ := newPrompter("3\n2\n")
	arch, err := prompt.ArchResolver{Prompter: p}.ResolveArch(context.Background(), "/g/libsteam_api.so")
	if err != nil || arch != crack.Arch64 {
		t.Fatalf("ResolveArch = %q, %v", arch, err)
	}
}

func TestSteamCredentials(t *testing.T) {
	p, _ := newPrompter("hunter2\ny\nABCDE\n")
	creds, err := p.SteamCredentials(context.Background())
	if err != nil || creds.Password != "hunter2" || creds.GuardCode != "ABCDE" {
		t.Fatalf("unexpected credentials %+v, %v", creds, err)
	}
}
