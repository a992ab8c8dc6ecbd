package preflight

import (
	"context"

	"blacksys/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// TranscodeChecks verifies the directories the FLAC batch reads and writes.
func TranscodeChecks(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckReadableDirectory("FLAC directory", cfg.Paths.FlacDir),
		CheckDirectoryAccess("MP3 directory", cfg.Paths.MP3Dir),
		CheckDirectoryAccess("Torrent directory", cfg.Paths.TorrentDir),
	}
}

// LocalChecks verifies every configured directory without touching the network.
func LocalChecks(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return append(TranscodeChecks(cfg),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckReadableDirectory("Games directory", cfg.Paths.GamesDir),
		CheckReadableDirectory("Replacement files", cfg.Steam.ReplacementDir),
	)
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return append(LocalChecks(cfg), CheckSteamStore(ctx, cfg.Steam.StoreAPIURL))
}
