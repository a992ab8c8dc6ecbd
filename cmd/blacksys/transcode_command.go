package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blacksys/internal/album"
	"blacksys/internal/batch"
	"blacksys/internal/config"
	"blacksys/internal/cover"
	"blacksys/internal/deps"
	"blacksys/internal/history"
	"blacksys/internal/notifications"
	"blacksys/internal/preflight"
	"blacksys/internal/prompt"
	"blacksys/internal/textutil"
	"blacksys/internal/torrent"
	"blacksys/internal/trackers"
	"blacksys/internal/transcode"
)

type transcodeOptions struct {
	presets  []string
	skipAll  bool
	torrent  bool
	trackers trackerFlags
	delete   bool
}

func (o *transcodeOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&o.presets, "preset", nil, "Transcode every album with these presets (V0, 320) without prompting")
	flags.BoolVar(&o.skipAll, "skip-all", false, "Record every album as skipped without prompting")
	flags.BoolVar(&o.torrent, "torrent", false, "Create a torrent for every output folder (with --preset)")
	o.trackers.bind(cmd)
	flags.BoolVar(&o.delete, "delete", false, "Delete the FLAC folder after a fully successful album (with --preset)")
}

func (o *transcodeOptions) interactive() bool {
	return len(o.presets) == 0 && !o.skipAll
}

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	opts := &transcodeOptions{}
	cmd := &cobra.Command{
		Use:   "transcode",
		Short: "Transcode every FLAC album folder to MP3",
		Long: `Scan the FLAC directory for album folders, ask what to do with each one,
then convert them to MP3 V0 and/or 320, optionally creating torrents and
removing the FLAC source once everything succeeded.

Pass --preset (or --skip-all) to apply one decision to every album instead of
prompting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscode(cmd, ctx, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runTranscode(cmd *cobra.Command, ctx *commandContext, opts *transcodeOptions) error {
	cfg, logger, err := ctx.session()
	if err != nil {
		return err
	}
	if err := deps.Require(deps.TranscodeRequirements(cfg)); err != nil {
		return err
	}
	if failed := preflight.Failed(preflight.TranscodeChecks(cfg)); len(failed) > 0 {
		return fmt.Errorf("%s: %s", failed[0].Name, failed[0].Detail)
	}

	lock, err := batch.AcquireLock(cfg.Paths.StateDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	store, err := history.Open(cmd.Context(), cfg.Paths.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	trackerStore, err := ctx.trackerStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newPrompter(cmd)
	p.Heading("blacksys - FLAC to MP3 batch")
	p.Println("Input:  %s", cfg.Paths.FlacDir)
	p.Println("Output: %s", cfg.Paths.MP3Dir)
	p.Rule()

	chooser, err := opts.chooser(p, trackerStore)
	if err != nil {
		return err
	}

	progress := newProgressReporter(out, shouldColorize(out))
	covers := cover.NewResolver(cfg.Tools.FFmpeg,
		cover.WithLogger(logger),
		cover.WithCanonicalName(cfg.Transcode.CoverName),
	)
	pipeline := transcode.NewPipeline(
		transcode.Binaries{Flac: cfg.Tools.Flac, Lame: cfg.Tools.Lame, FFmpeg: cfg.Tools.FFmpeg},
		covers,
		transcode.WithLogger(logger),
		transcode.WithProgress(progress.update),
	)
	orchestrator := album.NewOrchestrator(
		labeledConverter{next: pipeline, progress: progress},
		newTorrentCreator(cfg, logger),
		cfg,
		cfg.Paths.MP3Dir,
		cfg.Paths.TorrentDir,
		logger,
	)
	driver := batch.NewDriver(orchestrator, batch.WithRecorder(store), batch.WithLogger(logger))

	started := time.Now()
	summary, err := driver.Run(cmd.Context(), cfg.Paths.FlacDir, chooser)
	progress.finish()
	if errors.Is(err, batch.ErrNoAlbums) {
		p.Warn("No FLAC folders found in %s", cfg.Paths.FlacDir)
		return err
	}
	if len(summary.Reports) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderBatchSummary(summary))
		for _, report := range summary.Reports {
			switch {
			case report.Deleted:
				p.Println("Deleted source: %s", report.Album)
			case report.DeleteErr != nil:
				p.Warn("Could not delete %s: %v", report.Album, report.DeleteErr)
			}
		}
	}
	if err != nil {
		return err
	}
	ctx.notify(cmd, notifications.EventBatchCompleted, notifications.Payload{
		"albums":   len(summary.Reports),
		"failed":   summary.Failed(),
		"runID":    summary.RunID,
		"duration": time.Since(started),
	})
	if failed := summary.Failed(); failed > 0 {
		p.Warn("%d of %d albums had failures; see blacksys history --run %s", failed, len(summary.Reports), summary.RunID)
	}
	p.Println("All done.")
	return nil
}

func (o *transcodeOptions) chooser(p *prompt.Prompter, store *trackers.Store) (batch.Chooser, error) {
	if o.interactive() {
		if o.torrent || o.delete || o.trackers.set() {
			return nil, errors.New("--torrent, --tracker, --all-trackers and --delete require --preset")
		}
		return prompt.AlbumChooser{Prompter: p, Trackers: store}, nil
	}

	fixed := batch.FixedChooser{Choice: album.ChoiceSkip}
	if o.skipAll {
		return fixed, nil
	}
	choice, err := album.ChoiceFromPresets(o.presets)
	if err != nil {
		return nil, err
	}
	fixed.Choice = choice
	fixed.Delete = o.delete
	if !o.torrent {
		return fixed, nil
	}
	selected, err := resolveTrackers(store, o.trackers.names, o.trackers.all)
	if err != nil {
		return nil, err
	}
	fixed.Torrent = true
	fixed.Trackers = selected
	return fixed, nil
}

// resolveTrackers maps tracker names (case-insensitive) to stored entries.
func resolveTrackers(store *trackers.Store, names []string, all bool) ([]trackers.Tracker, error) {
	if all {
		selected, err := store.Select(trackers.MenuAll)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("no trackers stored in %s", store.Path())
		}
		return selected, nil
	}
	if len(names) == 0 {
		return nil, errors.New("--torrent needs --tracker or --all-trackers")
	}
	list, err := store.List()
	if err != nil {
		return nil, err
	}
	var selected []trackers.Tracker
	for _, name := range names {
		key := textutil.FoldKey(strings.TrimSpace(name))
		found := false
		for _, tr := range list {
			if textutil.FoldKey(tr.Name) == key {
				selected = append(selected, tr)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("tracker %q: %w", name, trackers.ErrNotFound)
		}
	}
	return selected, nil
}

func newTorrentCreator(cfg *config.Config, logger *slog.Logger) *torrent.Creator {
	return torrent.NewCreator(cfg.Tools.Mktorrent,
		torrent.WithPieceLength(cfg.Torrent.PieceLength),
		torrent.WithPrivate(cfg.Torrent.Private),
		torrent.WithSource(cfg.Torrent.Source),
		torrent.WithLogger(logger),
	)
}

// labeledConverter names the progress bar before each conversion.
type labeledConverter struct {
	next     album.Converter
	progress *progressReporter
}

func (c labeledConverter) Convert(ctx context.Context, srcDir, dstDir string, preset transcode.Preset) (transcode.Result, error) {
	c.progress.setLabel(filepath.Base(dstDir))
	return c.next.Convert(ctx, srcDir, dstDir, preset)
}

func renderBatchSummary(summary batch.Summary) string {
	var rows [][]string
	for _, report := range summary.Reports {
		for _, o := range batch.Outcomes(summary.RunID, report) {
			files := ""
			if o.Status != history.StatusSkipped {
				files = strconv.Itoa(o.FilesOK) + "/" + strconv.Itoa(o.FilesOK+o.FilesFailed)
			}
			torrentName := ""
			if o.TorrentPath != "" && o.Status == history.StatusSucceeded {
				torrentName = filepath.Base(o.TorrentPath)
			}
			rows = append(rows, []string{o.Album, o.Preset, files, torrentName, string(o.Status), o.Error})
		}
	}
	headers := []string{"Album", "Preset", "Files", "Torrent", "Status", "Error"}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}
