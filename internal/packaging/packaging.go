// Package packaging zips downloaded per-platform game folders and creates a
// torrent for each archive.
//
// The games root is laid out as <games>/<Title>/<Title>-<Platform>. Every
// platform folder becomes <games>/<Title>/<Title.With.Dots>.<Platform>.zip
// with a single top-level directory of the same name, and a torrent named
// after it in the torrent directory. Existing archives and torrents are kept.
package packaging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
	"blacksys/internal/textutil"
)

// platformSuffixes maps lower-case folder suffixes to release labels.
var platformSuffixes = []struct {
	suffix string
	label  string
}{
	{"-linux", "Linux"},
	{"-windows", "Windows"},
	{"-macos", "MacOS"},
}

// DetectPlatform returns the release label for a platform folder name.
func DetectPlatform(folder string) (string, bool) {
	lower := strings.ToLower(folder)
	for _, p := range platformSuffixes {
		if strings.HasSuffix(lower, p.suffix) {
			return p.label, true
		}
	}
	return "", false
}

// ReleaseName builds "Title.With.Dots.<Platform>".
func ReleaseName(title, platform string) string {
	name := textutil.Dotted(title)
	if platform == "" {
		return name
	}
	return name + "." + platform
}

// Item is one platform folder ready for packaging.
type Item struct {
	Title       string
	Dir         string
	Platform    string
	Name        string
	ZipPath     string
	TorrentPath string
}

// Scan finds platform folders two levels below gamesDir.
func Scan(gamesDir, torrentDir string) ([]Item, error) {
	titles, err := os.ReadDir(gamesDir)
	if err != nil {
		return nil, fmt.Errorf("read games directory: %w", err)
	}
	var items []Item
	for _, title := range titles {
		if !title.IsDir() {
			continue
		}
		titleDir := filepath.Join(gamesDir, title.Name())
		subs, err := os.ReadDir(titleDir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", title.Name(), err)
		}
		for _, sub := range subs {
			if !sub.IsDir() {
				continue
			}
			platform, ok := DetectPlatform(sub.Name())
			if !ok {
				continue
			}
			name := ReleaseName(title.Name(), platform)
			items = append(items, Item{
				Title:       title.Name(),
				Dir:         filepath.Join(titleDir, sub.Name()),
				Platform:    platform,
				Name:        name,
				ZipPath:     filepath.Join(titleDir, name+".zip"),
				TorrentPath: filepath.Join(torrentDir, name+".torrent"),
			})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Dir < items[j].Dir })
	return items, nil
}

// TorrentMaker writes a torrent for a file or folder.
type TorrentMaker interface {
	Create(ctx context.Context, path, out string, announce []string) (bool, error)
}

// Packager zips and torrents items.
type Packager struct {
	torrents TorrentMaker
	announce []string
	logger   *slog.Logger
}

// NewPackager constructs a packager. announce may be empty.
func NewPackager(torrents TorrentMaker, announce []string, logger *slog.Logger) *Packager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Packager{
		torrents: torrents,
		announce: append([]string(nil), announce...),
		logger:   logging.NewComponentLogger(logger, "packaging"),
	}
}

// Report is the outcome for one item.
type Report struct {
	Item           Item
	ZipCreated     bool
	TorrentCreated bool
	Err            error
}

// Run packages every item found under gamesDir.
func (p *Packager) Run(ctx context.Context, gamesDir, torrentDir string) ([]Report, error) {
	items, err := Scan(gamesDir, torrentDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(torrentDir, 0o755); err != nil {
		return nil, fmt.Errorf("create torrent directory: %w", err)
	}
	reports := make([]Report, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, p.Package(ctx, item))
	}
	return reports, nil
}

// Package zips one item and torrents the archive.
func (p *Packager) Package(ctx context.Context, item Item) Report {
	logger := p.logger.With(logging.String("release", item.Name))
	report := Report{Item: item}

	created, err := CreateZip(ctx, item.Dir, item.ZipPath, item.Name)
	report.ZipCreated = created
	if err != nil {
		report.Err = err
		logging.ErrorWithContext(logger, "zip failed", "zip_failed", logging.Error(err))
		return report
	}
	if !created {
		logger.Info("zip exists; skipping", logging.String("zip", item.ZipPath))
	}

	if fileutil.Exists(item.TorrentPath) {
		logger.Info("torrent exists; skipping", logging.String("torrent", item.TorrentPath))
		return report
	}
	report.TorrentCreated, report.Err = p.torrents.Create(ctx, item.ZipPath, item.TorrentPath, p.announce)
	if report.Err != nil {
		logging.WarnWithContext(logger, "torrent failed", "torrent_failed", logging.Error(report.Err))
		return report
	}
	logger.Info("release packaged",
		logging.String("zip", item.ZipPath),
		logging.String("torrent", item.TorrentPath),
	)
	return report
}
