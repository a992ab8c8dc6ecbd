package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blacksys/internal/config"
	"blacksys/internal/crack"
	"blacksys/internal/deps"
	"blacksys/internal/notifications"
	"blacksys/internal/packaging"
	"blacksys/internal/prompt"
	"blacksys/internal/steam"
	"blacksys/internal/trackers"
)

func newSteamCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steam",
		Short: "Download, patch, and package Steam games",
	}
	cmd.AddCommand(newSteamDownloadCommand(ctx))
	cmd.AddCommand(newSteamCrackCommand(ctx))
	cmd.AddCommand(newSteamPackageCommand(ctx))
	return cmd
}

type steamDownloadOptions struct {
	username  string
	platforms []string
	crack     bool
	pkg       bool
	trackers  trackerFlags
}

func newSteamDownloadCommand(ctx *commandContext) *cobra.Command {
	opts := &steamDownloadOptions{}
	cmd := &cobra.Command{
		Use:   "download [app-id]",
		Short: "Download every requested platform of a Steam app with steamcmd",
		Long: `Download a Steam app for Linux, Windows and/or macOS into the games
directory as <Game>/<Game>-<Platform>. A cached steamcmd login is tried first;
the password (and Steam Guard code) is asked for only when it is missing.

Without an app id the command asks for one, and for the platforms.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.session()
			if err != nil {
				return err
			}
			if err := deps.Require(deps.SteamRequirements(cfg)); err != nil {
				return err
			}
			p := newPrompter(cmd)

			req := steam.Request{Username: strings.TrimSpace(opts.username)}
			interactive := len(args) == 0
			if interactive {
				if req.AppID, err = p.Required("Steam App ID"); err != nil {
					return err
				}
			} else {
				req.AppID = strings.TrimSpace(args[0])
			}
			if req.Username == "" {
				req.Username = cfg.Steam.Username
			}
			if req.Username == "" {
				if req.Username, err = p.Required("Steam username"); err != nil {
					return err
				}
			}
			switch {
			case len(opts.platforms) > 0:
				req.Platforms, err = steam.ParsePlatforms(opts.platforms)
			case interactive:
				req.Platforms, err = p.SteamPlatforms()
			default:
				req.Platforms, err = steam.ParsePlatforms(cfg.Steam.Platforms)
			}
			if err != nil {
				return err
			}

			lookup := steam.NewStoreClient(cfg.Steam.StoreAPIURL, time.Duration(cfg.Steam.RequestTimeout)*time.Second)
			downloader := steam.NewDownloader(cfg.Tools.SteamCmd, cfg.Paths.GamesDir,
				steam.WithNameLookup(lookup),
				steam.WithLogger(logger),
			)
			result, err := downloader.Download(cmd.Context(), req, p.SteamCredentials)
			if err != nil {
				ctx.notify(cmd, notifications.EventError, notifications.Payload{"context": "steam download " + req.AppID, "error": err})
				return err
			}
			ctx.notify(cmd, notifications.EventDownloadCompleted, notifications.Payload{"game": result.GameName, "platforms": len(result.Dirs)})
			p.Println("Downloaded %s to %s", result.GameName, result.Root)
			for _, dir := range result.Dirs {
				p.Println("  %s", filepath.Base(dir))
			}

			if opts.crack {
				summary, err := newReplacer(cfg, p, logger).Run(cmd.Context(), result.Root, false)
				if err != nil {
					return err
				}
				printCrackSummary(cmd, summary)
				if summary.Failed() > 0 {
					p.Warn("%d libraries could not be replaced", summary.Failed())
				}
			}
			if opts.pkg {
				return runPackaging(cmd, ctx, cfg, logger, p, opts.trackers)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "Steam username (defaults to steam.username)")
	cmd.Flags().StringSliceVar(&opts.platforms, "platform", nil, "Platforms to download: linux, windows, macos (defaults to steam.platforms)")
	cmd.Flags().BoolVar(&opts.crack, "crack", false, "Replace Steam API libraries after the download")
	cmd.Flags().BoolVar(&opts.pkg, "package", false, "Zip and torrent the games directory after the download")
	opts.trackers.bind(cmd)
	return cmd
}

func newSteamCrackCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "crack <game-dir>",
		Short: "Replace Steam API libraries in a game folder",
		Long: `Walk a game folder and replace every recognised Steam API library with
the matching file from steam.replacement_dir. Each original is kept once as
<name>.backup. Libraries whose word size cannot be detected are asked about.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.session()
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			summary, err := newReplacer(cfg, p, logger).Run(cmd.Context(), args[0], dryRun)
			if err != nil {
				return err
			}
			printCrackSummary(cmd, summary)
			if summary.Failed() > 0 {
				p.Warn("%d libraries could not be replaced", summary.Failed())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be replaced without writing")
	return cmd
}

func newSteamPackageCommand(ctx *commandContext) *cobra.Command {
	var flags trackerFlags
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Zip every platform folder in the games directory and create torrents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.session()
			if err != nil {
				return err
			}
			return runPackaging(cmd, ctx, cfg, logger, newPrompter(cmd), flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newReplacer(cfg *config.Config, p *prompt.Prompter, logger *slog.Logger) *crack.Replacer {
	return crack.NewReplacer(cfg.Steam.ReplacementDir,
		crack.WithArchResolver(prompt.ArchResolver{Prompter: p}),
		crack.WithLogger(logger),
	)
}

func printCrackSummary(cmd *cobra.Command, summary crack.Summary) {
	out := cmd.OutOrStdout()
	for _, kind := range summary.Missing {
		fmt.Fprintf(out, "Missing replacement for %s (%s)\n", kind, crack.Replacements[kind])
	}
	if len(summary.Actions) == 0 {
		fmt.Fprintf(out, "No Steam API libraries found in %s\n", summary.Dir)
		return
	}
	rows := make([][]string, 0, len(summary.Actions))
	for _, a := range summary.Actions {
		rel, err := filepath.Rel(summary.Dir, a.Path)
		if err != nil {
			rel = a.Path
		}
		state := "replaced"
		switch {
		case a.Err != nil:
			state = a.Err.Error()
		case summary.DryRun:
			state = "would replace"
		case !a.Replaced:
			state = "skipped"
		}
		rows = append(rows, []string{rel, string(a.Kind), yesNo(a.BackupCreated), state})
	}
	fmt.Fprintln(out, renderTable([]string{"Library", "Kind", "Backup", "Result"}, rows, nil))
	fmt.Fprintf(out, "Replaced %d of %d libraries\n", summary.Replaced(), len(summary.Actions))
}

func runPackaging(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, logger *slog.Logger, p *prompt.Prompter, flags trackerFlags) error {
	if err := deps.Require(deps.PackagingRequirements(cfg)); err != nil {
		return err
	}
	store, err := ctx.trackerStore()
	if err != nil {
		return err
	}
	var selected []trackers.Tracker
	if flags.set() {
		selected, err = resolveTrackers(store, flags.names, flags.all)
	} else {
		selected, err = p.SelectTrackers(store)
	}
	if err != nil {
		return err
	}

	packager := packaging.NewPackager(newTorrentCreator(cfg, logger), trackers.AnnounceURLs(selected), logger)
	reports, err := packager.Run(cmd.Context(), cfg.Paths.GamesDir, cfg.Paths.TorrentDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintf(out, "No platform folders found in %s\n", cfg.Paths.GamesDir)
		return nil
	}
	failed := 0
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		state := "ok"
		if r.Err != nil {
			state = r.Err.Error()
			failed++
		}
		rows = append(rows, []string{
			r.Item.Name,
			r.Item.Platform,
			createdOrKept(r.ZipCreated),
			createdOrKept(r.TorrentCreated),
			state,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Release", "Platform", "Zip", "Torrent", "Result"}, rows, nil))
	ctx.notify(cmd, notifications.EventPackagingCompleted, notifications.Payload{"releases": len(reports), "failed": failed})
	if failed > 0 {
		p.Warn("%d of %d releases failed", failed, len(reports))
	}
	return nil
}

func createdOrKept(created bool) string {
	if created {
		return "created"
	}
	return "kept"
}

// trackerFlags selects trackers without the interactive menu.
type trackerFlags struct {
	names []string
	all   bool
}

func (f *trackerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.names, "tracker", nil, "Tracker names to announce to")
	cmd.Flags().BoolVar(&f.all, "all-trackers", false, "Announce to every stored tracker")
}

func (f trackerFlags) set() bool {
	return f.all || len(f.names) > 0
}
