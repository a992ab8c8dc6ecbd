package history

import "time"

// Status is the recorded outcome of one album/preset pair.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusPartial   Status = "partial"
)

// Outcome is one history row.
type Outcome struct {
	ID          int64
	RunID       string
	Album       string
	Preset      string
	OutputDir   string
	TorrentPath string
	Status      Status
	FilesOK     int
	FilesFailed int
	Error       string
	RecordedAt  time.Time
}

// Run groups the outcomes of one batch invocation.
type Run struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	Albums     int
}
