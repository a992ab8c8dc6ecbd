package album

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"blacksys/internal/torrent"
	"blacksys/internal/trackers"
	"blacksys/internal/transcode"
)

// Choice is the per-album transcode menu selection. Values match the menu
// numbers shown to the user.
type Choice int

const (
	ChoiceV0   Choice = 1
	Choice320  Choice = 2
	ChoiceBoth Choice = 3
	ChoiceSkip Choice = 4
)

// ParseChoice accepts the menu number as typed.
func ParseChoice(value string) (Choice, error) {
	switch strings.TrimSpace(value) {
	case "1":
		return ChoiceV0, nil
	case "2":
		return Choice320, nil
	case "3":
		return ChoiceBoth, nil
	case "4":
		return ChoiceSkip, nil
	}
	return 0, fmt.Errorf("invalid choice %q: enter 1, 2, 3, or 4", value)
}

// ChoiceFromPresets maps preset labels given on the command line to a Choice.
// An empty list means skip.
func ChoiceFromPresets(labels []string) (Choice, error) {
	var v0, mp320 bool
	for _, label := range labels {
		switch strings.ToUpper(strings.TrimSpace(label)) {
		case transcode.PresetV0:
			v0 = true
		case transcode.Preset320:
			mp320 = true
		case "":
		default:
			return 0, fmt.Errorf("unsupported preset %q (want V0 or 320)", label)
		}
	}
	switch {
	case v0 && mp320:
		return ChoiceBoth, nil
	case v0:
		return ChoiceV0, nil
	case mp320:
		return Choice320, nil
	}
	return ChoiceSkip, nil
}

// Presets lists the preset labels the choice runs, in run order.
func (c Choice) Presets() []string {
	switch c {
	case ChoiceV0:
		return []string{transcode.PresetV0}
	case Choice320:
		return []string{transcode.Preset320}
	case ChoiceBoth:
		return []string{transcode.PresetV0, transcode.Preset320}
	}
	return nil
}

func (c Choice) String() string {
	switch c {
	case ChoiceV0:
		return "V0 only"
	case Choice320:
		return "320 only"
	case ChoiceBoth:
		return "V0 + 320"
	case ChoiceSkip:
		return "skip"
	}
	return fmt.Sprintf("choice(%d)", int(c))
}

// Job is the decision recorded for one album before any work starts.
type Job struct {
	Source   string
	Choice   Choice
	Delete   bool
	Torrent  bool
	Trackers []trackers.Tracker
}

// Name returns the album folder name.
func (j Job) Name() string {
	return filepath.Base(filepath.Clean(j.Source))
}

// Skipped reports whether the job does no work.
func (j Job) Skipped() bool {
	return len(j.Choice.Presets()) == 0
}

var flacPattern = regexp.MustCompile(`(?i)flac`)

// OutputFolderName replaces every case-insensitive "flac" in folder with the
// preset's folder suffix ("MP3 V0", "MP3 320").
func OutputFolderName(folder string, preset transcode.Preset) string {
	suffix := preset.FolderSuffix()
	return flacPattern.ReplaceAllLiteralString(folder, suffix)
}

// Target is one planned preset output.
type Target struct {
	Preset    string
	OutputDir string
	Torrent   string
}

// Plan resolves the output locations for a job without touching disk.
type Plan struct {
	Job     Job
	Targets []Target
}

// NewPlan computes targets under mp3Dir and torrentDir.
func NewPlan(job Job, mp3Dir, torrentDir string) Plan {
	plan := Plan{Job: job}
	name := job.Name()
	prefix := trackers.Prefix(job.Trackers)
	for _, label := range job.Choice.Presets() {
		folder := OutputFolderName(name, transcode.Preset{Label: label})
		target := Target{Preset: label, OutputDir: filepath.Join(mp3Dir, folder)}
		if job.Torrent {
			target.Torrent = filepath.Join(torrentDir, torrent.FileName(prefix, folder))
		}
		plan.Targets = append(plan.Targets, target)
	}
	return plan
}
