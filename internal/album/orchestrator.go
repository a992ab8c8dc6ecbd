package album

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"blacksys/internal/fileutil"
	"blacksys/internal/logging"
	"blacksys/internal/trackers"
	"blacksys/internal/transcode"
)

// Converter transcodes one album folder with one preset.
type Converter interface {
	Convert(ctx context.Context, srcDir, dstDir string, preset transcode.Preset) (transcode.Result, error)
}

// TorrentMaker writes a torrent for a folder.
type TorrentMaker interface {
	Create(ctx context.Context, folder, out string, announce []string) (bool, error)
}

// imageExts are copied beside the MP3s before a torrent is made.
var imageExts = []string{".jpg", ".png"}

// PresetReport is the outcome of one preset.
type PresetReport struct {
	Preset       string
	OutputDir    string
	Result       transcode.Result
	Err          error
	Torrent      string
	TorrentMade  bool
	TorrentErr   error
	ImagesCopied int
}

// OK reports whether the transcode itself succeeded.
func (r PresetReport) OK() bool {
	return r.Err == nil && r.Result.OK()
}

// Report is the outcome of one album.
type Report struct {
	Album     string
	Source    string
	Skipped   bool
	Presets   []PresetReport
	Deleted   bool
	DeleteErr error
}

// OK reports whether every requested preset succeeded.
func (r Report) OK() bool {
	if r.Skipped {
		return true
	}
	if len(r.Presets) == 0 {
		return false
	}
	for _, p := range r.Presets {
		if !p.OK() {
			return false
		}
	}
	return true
}

// Orchestrator processes album jobs.
type Orchestrator struct {
	converter  Converter
	torrents   TorrentMaker
	presets    transcode.PresetSource
	mp3Dir     string
	torrentDir string
	logger     *slog.Logger
}

// NewOrchestrator wires the collaborators. torrents may be nil when torrent
// creation is never requested.
func NewOrchestrator(converter Converter, torrents TorrentMaker, presets transcode.PresetSource, mp3Dir, torrentDir string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		converter:  converter,
		torrents:   torrents,
		presets:    presets,
		mp3Dir:     mp3Dir,
		torrentDir: torrentDir,
		logger:     logging.NewComponentLogger(logger, "album"),
	}
}

// Process runs job. It never retries and never returns early on a preset
// failure; the report carries every outcome.
func (o *Orchestrator) Process(ctx context.Context, job Job) Report {
	ctx = logging.WithAlbum(ctx, job.Name())
	logger := logging.WithContext(ctx, o.logger)
	report := Report{Album: job.Name(), Source: job.Source}

	if job.Skipped() {
		report.Skipped = true
		logger.Info("album skipped")
		return report
	}

	plan := NewPlan(job, o.mp3Dir, o.torrentDir)
	for _, target := range plan.Targets {
		if ctx.Err() != nil {
			report.Presets = append(report.Presets, PresetReport{Preset: target.Preset, OutputDir: target.OutputDir, Err: ctx.Err()})
			continue
		}
		report.Presets = append(report.Presets, o.runPreset(logging.WithPreset(ctx, target.Preset), job, target))
	}

	if !job.Delete {
		return report
	}
	if !report.OK() {
		logging.WarnWithContext(logger, "source kept after failed transcode", "source_kept",
			logging.String("source", job.Source),
			logging.String(logging.FieldImpact, "flac folder left in place"),
		)
		return report
	}
	if err := os.RemoveAll(job.Source); err != nil {
		report.DeleteErr = fmt.Errorf("delete source %s: %w", job.Source, err)
		logging.ErrorWithContext(logger, "delete source failed", "source_delete_failed", logging.Error(err))
		return report
	}
	report.Deleted = true
	logger.Info("source deleted", logging.String("source", job.Source))
	return report
}

func (o *Orchestrator) runPreset(ctx context.Context, job Job, target Target) PresetReport {
	logger := logging.WithContext(ctx, o.logger)
	pr := PresetReport{Preset: target.Preset, OutputDir: target.OutputDir}

	preset, err := transcode.Lookup(o.presets, target.Preset)
	if err != nil {
		pr.Err = err
		logging.ErrorWithContext(logger, "preset unavailable", "preset_missing", logging.Error(err))
		return pr
	}

	logger.Info("converting", logging.String("output", target.OutputDir))
	pr.Result, pr.Err = o.converter.Convert(ctx, job.Source, target.OutputDir, preset)
	if !pr.OK() {
		attrs := []logging.Attr{
			logging.Int("failed_files", pr.Result.Failed()),
			logging.Int("converted_files", pr.Result.Succeeded()),
		}
		if pr.Err != nil {
			attrs = append(attrs, logging.Error(pr.Err))
		}
		logging.ErrorWithContext(logger, "preset failed", "preset_failed", attrs...)
		return pr
	}
	logger.Info("preset converted", logging.Int("files", pr.Result.Succeeded()))

	if !job.Torrent || target.Torrent == "" {
		return pr
	}
	if o.torrents == nil {
		pr.TorrentErr = errors.New("torrent creation not configured")
		return pr
	}
	copied, err := fileutil.CopyMatching(job.Source, target.OutputDir, imageExts...)
	pr.ImagesCopied = copied
	if err != nil {
		logging.WarnWithContext(logger, "image copy incomplete", "image_copy_failed", logging.Error(err))
	}
	pr.Torrent = target.Torrent
	pr.TorrentMade, pr.TorrentErr = o.torrents.Create(ctx, target.OutputDir, target.Torrent, trackers.AnnounceURLs(job.Trackers))
	if pr.TorrentErr != nil {
		logging.WarnWithContext(logger, "torrent creation failed", "torrent_failed",
			logging.Error(pr.TorrentErr),
			logging.String(logging.FieldImpact, "transcode kept without torrent"),
		)
	}
	return pr
}
