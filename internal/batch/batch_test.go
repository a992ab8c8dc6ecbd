package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blacksys/internal/album"
	"blacksys/internal/batch"
	"blacksys/internal/history"
	"blacksys/internal/trackers"
	"blacksys/internal/transcode"
)

func makeAlbums(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

type recordingProcessor struct {
	jobs []album.Job
	fail map[string]bool
	// cancel fires after the first processed album when set.
	cancel context.CancelFunc
}

func (p *recordingProcessor) Process(_ context.Context, job album.Job) album.Report {
	p.jobs = append(p.jobs, job)
	if p.cancel != nil {
		p.cancel()
	}
	report := album.Report{Album: job.Name(), Source: job.Source}
	if job.Skipped() {
		report.Skipped = true
		return report
	}
	for _, label := range job.Choice.Presets() {
		res := transcode.Result{Preset: label, Files: []transcode.FileResult{{Source: "/x/01.flac"}}}
		if p.fail[job.Name()] {
			res.Files[0].Err = errors.New("decode failed")
		}
		report.Presets = append(report.Presets, album.PresetReport{Preset: label, Result: res})
	}
	return report
}

type scriptedChooser struct {
	choices map[string]album.Choice
	asked   []string
}

func (c *scriptedChooser) Choose(_ context.Context, a batch.Album) (album.Job, error) {
	c.asked = append(c.asked, a.Name)
	return album.Job{Source: a.Path, Choice: c.choices[a.Name]}, nil
}

type memRecorder struct {
	started  []string
	outcomes []history.Outcome
	finished int
}

func (m *memRecorder) StartRun(_ context.Context, id, _ string) error {
	m.started = append(m.started, id)
	return nil
}

func (m *memRecorder) Record(_ context.Context, o history.Outcome) (int64, error) {
	m.outcomes = append(m.outcomes, o)
	return int64(len(m.outcomes)), nil
}

func (m *memRecorder) FinishRun(_ context.Context, _ string, albums int) error {
	m.finished = albums
	return nil
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := makeAlbums(t, "B - Two [FLAC]", "a - one (flac)", "Not audio", "C [Flac 24]")
	if err := os.WriteFile(filepath.Join(root, "loose.flac"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	albums, err := batch.Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	var names []string
	for _, a := range albums {
		names = append(names, a.Name)
	}
	want := []string{"B - Two [FLAC]", "C [Flac 24]", "a - one (flac)"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestDiscoverEmpty(t *testing.T) {
	root := makeAlbums(t, "mp3 only")
	if _, err := batch.Discover(root); !errors.Is(err, batch.ErrNoAlbums) {
		t.Fatalf("expected ErrNoAlbums, got %v", err)
	}
}

func TestRunAsksEveryAlbumBeforeProcessing(t *testing.T) {
	root := makeAlbums(t, "A [FLAC]", "B [FLAC]", "C [FLAC]")
	chooser := &scriptedChooser{choices: map[string]album.Choice{
		"A [FLAC]": album.ChoiceBoth,
		"B [FLAC]": album.ChoiceSkip,
		"C [FLAC]": album.Choice320,
	}}
	proc := &recordingProcessor{fail: map[string]bool{"C [FLAC]": true}}
	rec := &memRecorder{}
	driver := batch.NewDriver(proc, batch.WithRecorder(rec), batch.WithRunID(func() string { return "run-42" }))

	summary, err := driver.Run(context.Background(), root, chooser)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(chooser.asked) != 3 || len(proc.jobs) != 3 {
		t.Fatalf("asked=%v processed=%d", chooser.asked, len(proc.jobs))
	}
	if summary.RunID != "run-42" || summary.Failed() != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(rec.started) != 1 || rec.finished != 3 {
		t.Fatalf("recorder not driven: %+v", rec)
	}
	// A: two presets, B: one skip row, C: one failed row.
	if len(rec.outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(rec.outcomes))
	}
	if rec.outcomes[2].Status != history.StatusSkipped || rec.outcomes[3].Status != history.StatusFailed {
		t.Fatalf("unexpected statuses %+v", rec.outcomes)
	}
	if rec.outcomes[3].Error != "01.flac: decode failed" {
		t.Fatalf("unexpected error text %q", rec.outcomes[3].Error)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	root := makeAlbums(t, "A [FLAC]", "B [FLAC]")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc := &recordingProcessor{cancel: cancel}
	chooser := batch.FixedChooser{Choice: album.ChoiceV0}

	summary, err := batch.NewDriver(proc).Run(ctx, root, chooser)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(summary.Reports) != 1 {
		t.Fatalf("expected one processed album, got %d", len(summary.Reports))
	}
}

func TestFixedChooserDropsTrackersWithoutTorrent(t *testing.T) {
	chooser := batch.FixedChooser{Choice: album.ChoiceV0, Delete: true, Trackers: []trackers.Tracker{{Name: "x", URL: "u"}}}
	job, err := chooser.Choose(context.Background(), batch.Album{Name: "A", Path: "/a"})
	if err != nil {
		t.Fatal(err)
	}
	if !job.Delete || job.Torrent || len(job.Trackers) != 0 {
		t.Fatalf("unexpected job %+v", job)
	}

	skip, _ := batch.FixedChooser{Choice: album.ChoiceSkip, Delete: true}.Choose(context.Background(), batch.Album{Path: "/a"})
	if skip.Delete {
		t.Fatal("skipped albums never delete")
	}
}

func TestOutcomesPartialWhenTorrentFails(t *testing.T) {
	report := album.Report{Album: "A", Presets: []album.PresetReport{{
		Preset:     "V0",
		Result:     transcode.Result{Files: []transcode.FileResult{{Source: "01.flac"}}},
		Torrent:    "/t/a.torrent",
		TorrentErr: errors.New("mktorrent missing"),
	}}}
	rows := batch.Outcomes("r", report)
	if len(rows) != 1 || rows[0].Status != history.StatusPartial || rows[0].TorrentPath != "" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := batch.AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := batch.AcquireLock(dir); !errors.Is(err, batch.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatal(err)
	}
	again, err := batch.AcquireLock(dir)
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	_ = again.Release()
}
