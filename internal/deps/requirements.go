package deps

import "blacksys/internal/config"

// TranscodeRequirements lists the binaries used by the FLAC batch.
func TranscodeRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FLAC", Command: cfg.Tools.Flac, Description: "Decodes FLAC to PCM"},
		{Name: "LAME", Command: cfg.Tools.Lame, Description: "Encodes MP3"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Extracts and embeds cover art"},
		{Name: "mktorrent", Command: cfg.Tools.Mktorrent, Description: "Creates .torrent files"},
	}
}

// SteamRequirements lists the binaries used by the Steam download workflow.
func SteamRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "steamcmd", Command: cfg.Tools.SteamCmd, Description: "Downloads Steam depots"},
		{Name: "mktorrent", Command: cfg.Tools.Mktorrent, Description: "Creates .torrent files", Optional: true},
	}
}

// PackagingRequirements lists the binaries used when packaging games.
func PackagingRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "mktorrent", Command: cfg.Tools.Mktorrent, Description: "Creates .torrent files"},
	}
}

// AllRequirements returns every tool blacksys can drive, deduplicated by command.
func AllRequirements(cfg *config.Config) []Requirement {
	var out []Requirement
	seen := map[string]struct{}{}
	for _, group := range [][]Requirement{TranscodeRequirements(cfg), SteamRequirements(cfg)} {
		for _, req := range group {
			if _, ok := seen[req.Command]; ok {
				continue
			}
			seen[req.Command] = struct{}{}
			req.Optional = false
			out = append(out, req)
		}
	}
	return out
}
