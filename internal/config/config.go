package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the fixed working directories.
type Paths struct {
	FlacDir     string `toml:"flac_dir"`
	MP3Dir      string `toml:"mp3_dir"`
	TorrentDir  string `toml:"torrent_dir"`
	GamesDir    string `toml:"games_dir"`
	TrackerFile string `toml:"tracker_file"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Tools names the external binaries invoked as subprocesses.
type Tools struct {
	Flac      string `toml:"flac"`
	Lame      string `toml:"lame"`
	FFmpeg    string `toml:"ffmpeg"`
	Mktorrent string `toml:"mktorrent"`
	SteamCmd  string `toml:"steamcmd"`
}

// Transcode contains FLAC to MP3 conversion settings.
type Transcode struct {
	// Presets maps preset labels (V0, V2, 320) to LAME arguments. Entries
	// left out fall back to the built-in arguments.
	Presets map[string][]string `toml:"presets"`
	// CoverName is the canonical cover file written into album folders.
	CoverName string `toml:"cover_name"`
}

// Torrent contains mktorrent settings.
type Torrent struct {
	PieceLength int    `toml:"piece_length"`
	Private     bool   `toml:"private"`
	Source      string `toml:"source"`
}

// Steam contains steamcmd download and DRM replacement settings.
type Steam struct {
	Username       string   `toml:"username"`
	Platforms      []string `toml:"platforms"`
	ReplacementDir string   `toml:"replacement_dir"`
	StoreAPIURL    string   `toml:"store_api_url"`
	RequestTimeout int      `toml:"request_timeout"`
}

// Notifications contains ntfy settings. An empty topic disables them.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for blacksys.
//
// Configuration sections by subsystem:
//   - Paths: input/output directories, tracker list, state and logs
//   - Tools: external binaries (flac, lame, ffmpeg, mktorrent, steamcmd)
//   - Transcode: LAME presets and cover naming
//   - Torrent: mktorrent piece length, private flag, source tag
//   - Steam: steamcmd login and DRM replacement files
//   - Notifications: optional ntfy topic for completion messages
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Transcode     Transcode     `toml:"transcode"`
	Torrent       Torrent       `toml:"torrent"`
	Steam         Steam         `toml:"steam"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("blacksys.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, state, and log directories. The FLAC
// input and games directories are left alone: a missing input directory is
// reported by the commands that read it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MP3Dir, c.Paths.TorrentDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.TrackerFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracker directory %q: %w", dir, err)
		}
	}
	return nil
}

// PresetArgs returns the LAME arguments for a preset label.
func (c *Config) PresetArgs(label string) ([]string, bool) {
	args, ok := c.Transcode.Presets[label]
	if !ok {
		return nil, false
	}
	return append([]string(nil), args...), true
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
