package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"blacksys/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The FLAC, MP3, torrent, and games directories exist on return.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.FlacDir = filepath.Join(base, "flac")
	cfgVal.Paths.MP3Dir = filepath.Join(base, "mp3")
	cfgVal.Paths.TorrentDir = filepath.Join(base, "torrents")
	cfgVal.Paths.GamesDir = filepath.Join(base, "games")
	cfgVal.Paths.TrackerFile = filepath.Join(base, "trackers.json")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Steam.ReplacementDir = filepath.Join(base, "data")

	for _, dir := range []string{cfgVal.Paths.FlacDir, cfgVal.Paths.MP3Dir, cfgVal.Paths.TorrentDir, cfgVal.Paths.GamesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStubbedBinaries writes no-op stub executables for the provided names and
// prepends them to PATH. If names is empty, every external tool is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"flac", "lame", "ffmpeg", "mktorrent", "steamcmd"}
		}
		scripts := make(map[string]string, len(names))
		for _, name := range names {
			scripts[name] = "exit 0\n"
		}
		installScripts(b, scripts)
	}
}

// WithScript installs a /bin/sh stub named name whose body is body and
// prepends it to PATH.
func WithScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		installScripts(b, map[string]string{name: body})
	}
}

// WithToolScripts installs the FakeFlac, FakeLame, FakeFFmpeg, and
// FakeMktorrent stubs so the transcode workflow runs end to end.
func WithToolScripts() ConfigOption {
	return func(b *configBuilder) {
		installScripts(b, map[string]string{
			"flac":      FakeFlac,
			"lame":      FakeLame,
			"ffmpeg":    FakeFFmpeg,
			"mktorrent": FakeMktorrent,
		})
	}
}

func installScripts(b *configBuilder, scripts map[string]string) {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, body := range scripts {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
	}
	PrependPath(b.t, binDir)
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.FlacDir)
}
