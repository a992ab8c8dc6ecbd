package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownPlatforms = map[string]struct{}{
	"linux":   {},
	"windows": {},
	"macos":   {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateTorrent(); err != nil {
		return err
	}
	if err := c.validateSteam(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.FlacDir == c.Paths.MP3Dir {
		return errors.New("paths.flac_dir and paths.mp3_dir must differ")
	}
	if strings.HasSuffix(c.Paths.TrackerFile, "/") {
		return errors.New("paths.tracker_file must name a file")
	}
	return nil
}

func (c *Config) validateTranscode() error {
	for _, label := range []string{"V0", "320"} {
		if len(c.Transcode.Presets[label]) == 0 {
			return fmt.Errorf("transcode.presets.%s must not be empty", label)
		}
	}
	if strings.ContainsAny(c.Transcode.CoverName, `/\`) {
		return errors.New("transcode.cover_name must be a bare file name")
	}
	return nil
}

func (c *Config) validateTorrent() error {
	// mktorrent accepts piece length exponents 15 (32 KiB) through 28 (256 MiB).
	if c.Torrent.PieceLength < 15 || c.Torrent.PieceLength > 28 {
		return fmt.Errorf("torrent.piece_length must be between 15 and 28, got %d", c.Torrent.PieceLength)
	}
	return nil
}

func (c *Config) validateSteam() error {
	for _, platform := range c.Steam.Platforms {
		if _, ok := knownPlatforms[platform]; !ok {
			return fmt.Errorf("steam.platforms: unknown platform %q (want linux, windows, or macos)", platform)
		}
	}
	if c.Steam.RequestTimeout <= 0 {
		return errors.New("steam.request_timeout must be positive (seconds)")
	}
	return nil
}
