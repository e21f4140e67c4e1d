package tui

import (
	"fmt"
	"time"

	"github.com/fieldhand/mowtrack/internal/report"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDay viewState = iota
	viewReports
)

var viewNames = []string{"Day", "Reports"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type reportsDataMsg struct {
	rng     report.Range
	summary report.Summary
}

type exportDoneMsg struct {
	path string
}

type backupDoneMsg struct {
	path string
}

type restoreDoneMsg struct {
	count int
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func millisToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func formatClock(ms int64) string {
	return time.UnixMilli(ms).Local().Format("3:04 PM")
}
