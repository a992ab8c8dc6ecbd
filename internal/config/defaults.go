package config

const (
	defaultConfigPath      = "~/.config/blacksys/config.toml"
	defaultFlacDir         = "flac"
	defaultMP3Dir          = "mp3"
	defaultTorrentDir      = "torrents"
	defaultGamesDir        = "games"
	defaultTrackerFile     = "trackers.json"
	defaultStateDir        = "~/.local/share/blacksys"
	defaultLogDir          = "~/.local/share/blacksys/logs"
	defaultFlacBinary      = "flac"
	defaultLameBinary      = "lame"
	defaultFFmpegBinary    = "ffmpeg"
	defaultMktorrentBinary = "mktorrent"
	defaultSteamCmdBinary  = "steamcmd"
	defaultCoverName       = "cover.jpg"
	defaultPieceLength     = 21
	defaultReplacementDir  = "data"
	defaultStoreAPIURL     = "https://store.steampowered.com/api/appdetails"
	defaultRequestTimeout  = 15
	defaultNtfyTimeout     = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// DefaultPresets returns the built-in LAME argument sets keyed by preset label.
func DefaultPresets() map[string][]string {
	return map[string][]string{
		"V0":  {"--noreplaygain", "--vbr-new", "-V", "0", "-h", "--nohist", "--quiet"},
		"V2":  {"--noreplaygain", "--vbr-new", "-V", "2", "-h", "--nohist", "--quiet"},
		"320": {"--noreplaygain", "-b", "320", "-h", "--nohist", "--quiet"},
	}
}

// DefaultPlatforms lists the steamcmd platform keys downloaded by default.
func DefaultPlatforms() []string {
	return []string{"linux", "windows", "macos"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FlacDir:     defaultFlacDir,
			MP3Dir:      defaultMP3Dir,
			TorrentDir:  defaultTorrentDir,
			GamesDir:    defaultGamesDir,
			TrackerFile: defaultTrackerFile,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Tools: Tools{
			Flac:      defaultFlacBinary,
			Lame:      defaultLameBinary,
			FFmpeg:    defaultFFmpegBinary,
			Mktorrent: defaultMktorrentBinary,
			SteamCmd:  defaultSteamCmdBinary,
		},
		Transcode: Transcode{
			Presets:   DefaultPresets(),
			CoverName: defaultCoverName,
		},
		Torrent: Torrent{
			PieceLength: defaultPieceLength,
			Private:     true,
		},
		Steam: Steam{
			Platforms:      DefaultPlatforms(),
			ReplacementDir: defaultReplacementDir,
			StoreAPIURL:    defaultStoreAPIURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
