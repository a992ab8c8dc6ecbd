// Package batch drives a whole transcode session: it discovers FLAC album
// folders, collects a decision for every album up front, then processes the
// albums one at a time and records each outcome.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"blacksys/internal/album"
	"blacksys/internal/history"
	"blacksys/internal/logging"
	"blacksys/internal/trackers"
)

// ErrNoAlbums is returned when the input directory has no FLAC folders.
var ErrNoAlbums = errors.New("no FLAC folders found")

// RunKind labels transcode runs in the history database.
const RunKind = "transcode"

// Album is a discovered source folder.
type Album struct {
	Name string
	Path string
}

// Discover lists the immediate subdirectories of dir whose name contains
// "flac" in any case, sorted by name.
func Discover(dir string) ([]Album, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read flac directory: %w", err)
	}
	var albums []Album
	for _, entry := range entries {
		if !entry.IsDir() || !strings.Contains(strings.ToLower(entry.Name()), "flac") {
			continue
		}
		albums = append(albums, Album{Name: entry.Name(), Path: filepath.Join(dir, entry.Name())})
	}
	if len(albums) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAlbums, dir)
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].Name < albums[j].Name })
	return albums, nil
}

// Chooser decides what to do with an album. The interactive prompt and the
// flag-driven FixedChooser both implement it.
type Chooser interface {
	Choose(ctx context.Context, a Album) (album.Job, error)
}

// FixedChooser applies the same decision to every album.
type FixedChooser struct {
	Choice   album.Choice
	Delete   bool
	Torrent  bool
	Trackers []trackers.Tracker
}

// Choose implements Chooser.
func (f FixedChooser) Choose(_ context.Context, a Album) (album.Job, error) {
	job := album.Job{Source: a.Path, Choice: f.Choice}
	if job.Skipped() {
		return job, nil
	}
	job.Delete = f.Delete
	job.Torrent = f.Torrent
	if f.Torrent {
		job.Trackers = append([]trackers.Tracker(nil), f.Trackers...)
	}
	return job, nil
}

// Processor handles one album job.
type Processor interface {
	Process(ctx context.Context, job album.Job) album.Report
}

// Recorder persists run outcomes. *history.Store satisfies it.
type Recorder interface {
	StartRun(ctx context.Context, id, kind string) error
	Record(ctx context.Context, o history.Outcome) (int64, error)
	FinishRun(ctx context.Context, id string, albums int) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithRecorder stores outcomes in rec.
func WithRecorder(rec Recorder) Option {
	return func(d *Driver) { d.recorder = rec }
}

// WithLogger sets the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRunID overrides run id generation.
func WithRunID(fn func() string) Option {
	return func(d *Driver) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// Driver runs a batch.
type Driver struct {
	processor Processor
	recorder  Recorder
	logger    *slog.Logger
	newID     func() string
}

// NewDriver constructs a driver around processor.
func NewDriver(processor Processor, opts ...Option) *Driver {
	d := &Driver{
		processor: processor,
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "batch")
	return d
}

// Summary is the outcome of a batch.
type Summary struct {
	RunID   string
	Reports []album.Report
}

// Failed counts albums with at least one failed preset.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Reports {
		if !r.OK() {
			n++
		}
	}
	return n
}

// Run discovers albums in dir, asks chooser about each of them before any
// work begins, and then processes them in order. Album failures never stop
// the batch; only discovery, a chooser error, or cancellation do.
func (d *Driver) Run(ctx context.Context, dir string, chooser Chooser) (Summary, error) {
	albums, err := Discover(dir)
	if err != nil {
		return Summary{}, err
	}

	jobs := make([]album.Job, 0, len(albums))
	for _, a := range albums {
		job, err := chooser.Choose(ctx, a)
		if err != nil {
			return Summary{}, fmt.Errorf("choose %s: %w", a.Name, err)
		}
		jobs = append(jobs, job)
	}
	return d.Execute(ctx, jobs)
}

// Execute processes already decided jobs.
func (d *Driver) Execute(ctx context.Context, jobs []album.Job) (Summary, error) {
	summary := Summary{RunID: d.newID()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, d.logger)

	if d.recorder != nil {
		if err := d.recorder.StartRun(ctx, summary.RunID, RunKind); err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_failed", logging.Error(err))
			d.recorder = nil
		}
	}
	logger.Info("batch started", logging.Int("albums", len(jobs)))

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			d.finish(ctx, summary)
			return summary, err
		}
		report := d.processor.Process(ctx, job)
		summary.Reports = append(summary.Reports, report)
		d.record(ctx, summary.RunID, report)
	}

	d.finish(ctx, summary)
	logger.Info("batch finished",
		logging.Int("albums", len(summary.Reports)),
		logging.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (d *Driver) record(ctx context.Context, runID string, report album.Report) {
	if d.recorder == nil {
		return
	}
	for _, o := range Outcomes(runID, report) {
		if _, err := d.recorder.Record(ctx, o); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, d.logger), "history write failed", "history_failed", logging.Error(err))
			return
		}
	}
}

func (d *Driver) finish(ctx context.Context, summary Summary) {
	if d.recorder == nil {
		return
	}
	// Record the finish even when the batch context was cancelled.
	if err := d.recorder.FinishRun(context.WithoutCancel(ctx), summary.RunID, len(summary.Reports)); err != nil {
		logging.WarnWithContext(d.logger, "history finish failed", "history_failed", logging.Error(err))
	}
}

// Outcomes flattens a report into history rows, one per preset.
func Outcomes(runID string, report album.Report) []history.Outcome {
	if report.Skipped {
		return []history.Outcome{{RunID: runID, Album: report.Album, Status: history.StatusSkipped}}
	}
	out := make([]history.Outcome, 0, len(report.Presets))
	for _, p := range report.Presets {
		o := history.Outcome{
			RunID:       runID,
			Album:       report.Album,
			Preset:      p.Preset,
			OutputDir:   p.OutputDir,
			FilesOK:     p.Result.Succeeded(),
			FilesFailed: p.Result.Failed(),
		}
		if p.TorrentErr == nil {
			o.TorrentPath = p.Torrent
		}
		switch {
		case p.OK() && p.TorrentErr == nil:
			o.Status = history.StatusSucceeded
		case p.OK():
			o.Status = history.StatusPartial
			o.Error = p.TorrentErr.Error()
		default:
			o.Status = history.StatusFailed
			o.Error = firstError(p)
		}
		out = append(out, o)
	}
	return out
}

func firstError(p album.PresetReport) string {
	if p.Err != nil {
		return p.Err.Error()
	}
	for _, f := range p.Result.Files {
		if f.Err != nil {
			return fmt.Sprintf("%s: %v", filepath.Base(f.Source), f.Err)
		}
	}
	return "no files converted"
}
