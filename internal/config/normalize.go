package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranscode()
	c.normalizeTorrent()
	if err := c.normalizeSteam(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.flac_dir", &c.Paths.FlacDir, defaultFlacDir},
		{"paths.mp3_dir", &c.Paths.MP3Dir, defaultMP3Dir},
		{"paths.torrent_dir", &c.Paths.TorrentDir, defaultTorrentDir},
		{"paths.games_dir", &c.Paths.GamesDir, defaultGamesDir},
		{"paths.tracker_file", &c.Paths.TrackerFile, defaultTrackerFile},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Flac = trimOr(c.Tools.Flac, defaultFlacBinary)
	c.Tools.Lame = trimOr(c.Tools.Lame, defaultLameBinary)
	c.Tools.FFmpeg = trimOr(c.Tools.FFmpeg, defaultFFmpegBinary)
	c.Tools.Mktorrent = trimOr(c.Tools.Mktorrent, defaultMktorrentBinary)
	c.Tools.SteamCmd = trimOr(c.Tools.SteamCmd, defaultSteamCmdBinary)
}

func (c *Config) normalizeTranscode() {
	presets := DefaultPresets()
	for label, args := range c.Transcode.Presets {
		key := strings.ToUpper(strings.TrimSpace(label))
		if key == "" || len(args) == 0 {
			continue
		}
		presets[key] = append([]string(nil), args...)
	}
	c.Transcode.Presets = presets
	c.Transcode.CoverName = trimOr(c.Transcode.CoverName, defaultCoverName)
}

func (c *Config) normalizeTorrent() {
	if c.Torrent.PieceLength <= 0 {
		c.Torrent.PieceLength = defaultPieceLength
	}
	c.Torrent.Source = strings.TrimSpace(c.Torrent.Source)
}

func (c *Config) normalizeSteam() error {
	c.Steam.Username = strings.TrimSpace(c.Steam.Username)
	if c.Steam.Username == "" {
		if value, ok := os.LookupEnv("STEAM_USERNAME"); ok {
			c.Steam.Username = strings.TrimSpace(value)
		}
	}
	platforms := make([]string, 0, len(c.Steam.Platforms))
	seen := make(map[string]struct{}, len(c.Steam.Platforms))
	for _, platform := range c.Steam.Platforms {
		normalized := strings.ToLower(strings.TrimSpace(platform))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		platforms = append(platforms, normalized)
	}
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}
	c.Steam.Platforms = platforms

	var err error
	c.Steam.ReplacementDir = trimOr(c.Steam.ReplacementDir, defaultReplacementDir)
	if c.Steam.ReplacementDir, err = expandPath(c.Steam.ReplacementDir); err != nil {
		return fmt.Errorf("steam.replacement_dir: %w", err)
	}
	c.Steam.StoreAPIURL = trimOr(c.Steam.StoreAPIURL, defaultStoreAPIURL)
	if c.Steam.RequestTimeout <= 0 {
		c.Steam.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
