package main

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }}`

// progressReporter draws one bar per album/preset on terminals. The pipeline
// reports done=1 for the first file of every conversion, which starts a new
// bar; the last file finishes it.
type progressReporter struct {
	out     io.Writer
	enabled bool
	label   string
	bar     *pb.ProgressBar
}

func newProgressReporter(out io.Writer, enabled bool) *progressReporter {
	return &progressReporter{out: out, enabled: enabled}
}

// setLabel names the bar for the next conversion.
func (r *progressReporter) setLabel(label string) {
	r.label = label
}

func (r *progressReporter) update(done, total int, file string) {
	if !r.enabled || total <= 0 {
		return
	}
	if done == 1 || r.bar == nil {
		r.finish()
		r.bar = pb.New(total)
		r.bar.SetWriter(r.out)
		r.bar.SetTemplateString(progressTemplate)
		r.bar.Set("prefix", fmt.Sprintf("%-40.40s", r.label))
		r.bar.Start()
	}
	r.bar.SetCurrent(int64(done))
	if done >= total {
		r.finish()
	}
}

func (r *progressReporter) finish() {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}
