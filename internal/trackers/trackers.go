// Package trackers persists the list of private tracker announce URLs.
//
// The list lives in a JSON array of {"name", "url"} objects. It is re-read on
// every access and always presented sorted case-insensitively by name, so
// menu numbers refer to that order.
package trackers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"blacksys/internal/textutil"
)

// ErrNotFound is returned when a menu choice or index matches no tracker.
var ErrNotFound = errors.New("tracker not found")

// Menu choices shown by the tracker selection prompt.
const (
	MenuVisible = 7
	MenuAll     = 8
	MenuAdd     = 9
	MenuManage  = 0
)

// NoTracker prefixes torrent names when no tracker is selected.
const NoTracker = "NoTracker"

// Tracker is one announce target.
type Tracker struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Store reads and writes the tracker file at a fixed path.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store backed by path. The file need not exist.
func NewStore(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// List returns every tracker sorted by name, ignoring case. A missing file
// yields an empty list.
func (s *Store) List() ([]Tracker, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Tracker{}, nil
		}
		return nil, fmt.Errorf("read tracker file: %w", err)
	}
	var list []Tracker
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode tracker file %s: %w", s.path, err)
		}
	}
	sortTrackers(list)
	if list == nil {
		list = []Tracker{}
	}
	return list, nil
}

// Add appends a tracker. Name and URL must be non-empty.
func (s *Store) Add(name, url string) (Tracker, error) {
	t := Tracker{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)}
	if t.Name == "" || t.URL == "" {
		return Tracker{}, errors.New("tracker name and announce url are required")
	}
	err := s.update(func(list []Tracker) ([]Tracker, error) {
		return append(list, t), nil
	})
	if err != nil {
		return Tracker{}, err
	}
	return t, nil
}

// Remove deletes the tracker at the 1-based position of the sorted list.
func (s *Store) Remove(index int) (Tracker, error) {
	var removed Tracker
	err := s.update(func(list []Tracker) ([]Tracker, error) {
		if index < 1 || index > len(list) {
			return nil, fmt.Errorf("%w: no tracker #%d", ErrNotFound, index)
		}
		removed = list[index-1]
		return append(list[:index-1], list[index:]...), nil
	})
	if err != nil {
		return Tracker{}, err
	}
	return removed, nil
}

// Select resolves a selection menu choice: 1 through MenuVisible pick one of
// the first trackers, MenuAll picks every tracker.
func (s *Store) Select(choice int) ([]Tracker, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	return SelectFrom(list, choice)
}

// SelectFrom applies the selection menu rules to an already sorted list.
func SelectFrom(list []Tracker, choice int) ([]Tracker, error) {
	if choice == MenuAll {
		return append([]Tracker(nil), list...), nil
	}
	visible := len(list)
	if visible > MenuVisible {
		visible = MenuVisible
	}
	if choice < 1 || choice > visible {
		return nil, fmt.Errorf("%w: choice %d", ErrNotFound, choice)
	}
	return []Tracker{list[choice-1]}, nil
}

// Prefix returns the torrent file name prefix for a selection: the first
// tracker's name with spaces replaced, or NoTracker.
func Prefix(selected []Tracker) string {
	if len(selected) == 0 || strings.TrimSpace(selected[0].Name) == "" {
		return NoTracker
	}
	return textutil.Underscored(selected[0].Name)
}

// AnnounceURLs returns the URLs of selected in order.
func AnnounceURLs(selected []Tracker) []string {
	urls := make([]string, 0, len(selected))
	for _, t := range selected {
		if t.URL != "" {
			urls = append(urls, t.URL)
		}
	}
	return urls
}

func (s *Store) update(mutate func([]Tracker) ([]Tracker, error)) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracker directory: %w", err)
		}
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock tracker file: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	list, err := s.List()
	if err != nil {
		return err
	}
	list, err = mutate(list)
	if err != nil {
		return err
	}
	return s.save(list)
}

func (s *Store) save(list []Tracker) error {
	if list == nil {
		list = []Tracker{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trackers: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write tracker file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace tracker file: %w", err)
	}
	return nil
}

func sortTrackers(list []Tracker) {
	sort.SliceStable(list, func(i, j int) bool {
		return textutil.FoldKey(list[i].Name) < textutil.FoldKey(list[j].Name)
	})
}
