package utils

import (
	"testing"
)

func TestProgressTracker_Accumulates(t *testing.T) {
	tracker := NewProgressTracker(1000, true)

	tracker.Add(300)
	tracker.Add(300)
	tracker.Add(400)

	if got := tracker.Current(); got != 1000 {
		t.Errorf("expected 1000 bytes tracked, got %d", got)
	}

	summary := tracker.Finish()
	if summary.TotalBytes != 1000 {
		t.Errorf("expected summary total 1000, got %d", summary.TotalBytes)
	}
	if summary.TotalTime <= 0 {
		t.Errorf("expected positive elapsed time, got %v", summary.TotalTime)
	}
}

func TestProgressTracker_UnknownTotal(t *testing.T) {
	tracker := NewProgressTracker(0, true)

	tracker.Add(64 * 1024)
	tracker.Add(64 * 1024)

	summary := tracker.Finish()
	if summary.TotalBytes != 128*1024 {
		t.Errorf("expected 128 KiB, got %d", summary.TotalBytes)
	}
}

func TestProgressTracker_QuietMode(t *testing.T) {
	tracker := NewProgressTracker(100, true)

	if !tracker.IsQuiet() {
		t.Error("expected quiet tracker")
	}
	if tracker.bar != nil {
		t.Error("quiet tracker must not build a progress bar")
	}

	loud := NewProgressTracker(100, false)
	if loud.bar == nil {
		t.Error("non-quiet tracker must build a progress bar")
	}
	loud.Finish()
}

func TestProgressTracker_ZeroBytes(t *testing.T) {
	tracker := NewProgressTracker(0, true)

	summary := tracker.Finish()
	if summary.TotalBytes != 0 {
		t.Errorf("expected 0 bytes, got %d", summary.TotalBytes)
	}
	if summary.AverageSpeed != 0 {
		t.Errorf("expected 0 speed for empty download, got %f", summary.AverageSpeed)
	}
}
