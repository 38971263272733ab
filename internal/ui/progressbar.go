package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress shows a row counter for the table being exported.
// A nil *Progress is valid and does nothing.
type Progress struct {
	bar   *progressbar.ProgressBar
	label string
	start time.Time
}

// NewProgress returns a spinner-style counter written to stderr.
func NewProgress(label string) *Progress {
	return newProgress(label, os.Stderr)
}

func newProgress(label string, w io.Writer) *Progress {
	if label == "" {
		label = "Exporting rows"
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(label),
		progressbar.OptionEnableColorCodes(false),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
	)
	return &Progress{bar: bar, label: label, start: time.Now()}
}

// Add records that rowCount rows have been written so far.
func (p *Progress) Add(rowCount int) {
	if p == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("%s... %d rows", p.label, rowCount))
	p.bar.Add(1)
}

// Finish clears the bar.
func (p *Progress) Finish(rowCount int) {
	if p == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("%s... %d rows [%ds]", p.label, rowCount, int(time.Since(p.start).Seconds())))
	p.bar.Finish()
	p.bar.Clear()
}
