package utils

import (
	"time"

	"github.com/cheggaaa/pb/v3"
)

// ProgressTracker renders the single-line download progress readout.
// With a known total it shows counters, a bar, percentage and ETA;
// with an unknown total it degrades to transferred bytes and speed.
type ProgressTracker struct {
	bar       *pb.ProgressBar
	quiet     bool
	total     int64
	current   int64
	startTime time.Time
}

// DownloadSummary contains final download statistics
type DownloadSummary struct {
	TotalBytes   int64
	TotalTime    time.Duration
	AverageSpeed float64 // bytes per second
}

// NewProgressTracker creates a progress tracker; total <= 0 means the
// content length is unknown.
func NewProgressTracker(total int64, quiet bool) *ProgressTracker {
	tracker := &ProgressTracker{
		quiet:     quiet,
		total:     total,
		startTime: time.Now(),
	}

	if !quiet {
		var tmpl string
		if total > 0 {
			tmpl = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}`
		} else {
			tmpl = `{{string . "prefix"}}{{counters . }} {{speed . }}`
		}
		bar := pb.ProgressBarTemplate(tmpl).Start64(total)
		bar.Set(pb.Bytes, true)
		bar.Set(pb.SIBytesPrefix, true)
		bar.Set("prefix", "Downloading: ")
		tracker.bar = bar
	}

	return tracker
}

// Add advances the progress by n bytes.
func (p *ProgressTracker) Add(n int64) {
	p.current += n
	if p.bar != nil {
		p.bar.SetCurrent(p.current)
	}
}

// Current returns the number of bytes accounted so far.
func (p *ProgressTracker) Current() int64 {
	return p.current
}

// Finish completes the progress bar and returns the download summary.
func (p *ProgressTracker) Finish() *DownloadSummary {
	totalTime := time.Since(p.startTime)

	if p.bar != nil {
		p.bar.Finish()
	}

	var averageSpeed float64
	if totalTime.Seconds() > 0 {
		averageSpeed = float64(p.current) / totalTime.Seconds()
	}

	return &DownloadSummary{
		TotalBytes:   p.current,
		TotalTime:    totalTime,
		AverageSpeed: averageSpeed,
	}
}

// IsQuiet returns whether the tracker is in quiet mode
func (p *ProgressTracker) IsQuiet() bool {
	return p.quiet
}
