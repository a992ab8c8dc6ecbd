package trackers_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blacksys/internal/trackers"
)

func newStore(t *testing.T) *trackers.Store {
	t.Helper()
	return trackers.NewStore(filepath.Join(t.TempDir(), "cfg", "trackers.json"))
}

func TestListMissingFileIsEmpty(t *testing.T) {
	list, err := newStore(t).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}

func TestAddPersistsSortedCaseInsensitively(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"zeta", "Alpha", "beta"} {
		if _, err := store.Add(name, "https://"+name+"/announce"); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	got := []string{list[0].Name, list[1].Name, list[2].Name}
	if strings.Join(got, ",") != "Alpha,beta,zeta" {
		t.Fatalf("unexpected order %v", got)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  {\n    \"name\"") {
		t.Fatalf("expected two-space indented JSON, got %s", data)
	}
}

func TestAddRequiresNameAndURL(t *testing.T) {
	if _, err := newStore(t).Add(" ", "https://x"); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestRemoveByPosition(t *testing.T) {
	store := newStore(t)
	_, _ = store.Add("b", "u2")
	_, _ = store.Add("a", "u1")

	removed, err := store.Remove(1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.Name != "a" {
		t.Fatalf("removed %q, want a", removed.Name)
	}
	list, _ := store.List()
	if len(list) != 1 || list[0].Name != "b" {
		t.Fatalf("unexpected list %v", list)
	}
	if _, err := store.Remove(5); !errors.Is(err, trackers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSelectMenuRules(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8"} {
		if _, err := store.Add(name, "https://"+name); err != nil {
			t.Fatal(err)
		}
	}

	one, err := store.Select(2)
	if err != nil || len(one) != 1 || one[0].Name != "t2" {
		t.Fatalf("Select(2) = %v, %v", one, err)
	}
	all, err := store.Select(trackers.MenuAll)
	if err != nil || len(all) != 8 {
		t.Fatalf("Select(All) = %d trackers, %v", len(all), err)
	}
	// Only the first seven are addressable individually.
	if _, err := store.Select(8 + 1); !errors.Is(err, trackers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := trackers.SelectFrom(all, 0); !errors.Is(err, trackers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 0, got %v", err)
	}
}

func TestPrefixAndAnnounce(t *testing.T) {
	if got := trackers.Prefix(nil); got != trackers.NoTracker {
		t.Fatalf("Prefix(nil) = %q", got)
	}
	sel := []trackers.Tracker{{Name: "My Tracker", URL: "https://a"}, {Name: "Other", URL: "https://b"}}
	if got := trackers.Prefix(sel); got != "My_Tracker" {
		t.Fatalf("Prefix = %q", got)
	}
	if got := strings.Join(trackers.AnnounceURLs(sel), ","); got != "https://a,https://b" {
		t.Fatalf("AnnounceURLs = %q", got)
	}
}

func TestListRejectsCorruptFile(t *testing.T) {
	store := newStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.List(); err == nil {
		t.Fatal("expected decode error")
	}
}
