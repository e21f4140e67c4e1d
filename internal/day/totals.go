package day

import (
	"fmt"
	"math"
	"time"
)

// Totals is the per-mode duration rollup for one day.
type Totals struct {
	ByMode    map[Mode]time.Duration
	Total     time.Duration
	StopCount int
}

func newTotals() Totals {
	by := make(map[Mode]time.Duration, len(Modes))
	for _, m := range Modes {
		by[m] = 0
	}
	return Totals{ByMode: by}
}

func (t *Totals) add(mode Mode, ms int64) {
	if ms < 0 {
		ms = 0
	}
	if _, ok := t.ByMode[mode]; !ok {
		// Unrecognized mode from a stale or foreign record: ignore.
		return
	}
	d := time.Duration(ms) * time.Millisecond
	t.ByMode[mode] += d
	t.Total += d
}

// ComputeTotals sums closed segments per mode and, while the day is running,
// the live segment up to now. Pure: never mutates s, same inputs give the
// same result.
func ComputeTotals(s *DayState, now time.Time) Totals {
	t := newTotals()
	for _, seg := range s.Segments {
		end := seg.End
		if end == 0 {
			end = seg.Start
		}
		t.add(seg.Mode, end-seg.Start)
	}
	if s.ActiveMode != "" && s.ActiveStartedAt != 0 && !s.Ended() {
		t.add(s.ActiveMode, now.UnixMilli()-s.ActiveStartedAt)
	}
	t.StopCount = s.StopCount
	return t
}

// ClosedTotals sums only fully closed segments, for historical aggregation
// where a stale live segment must not count against the current time.
func ClosedTotals(s *DayState) Totals {
	t := newTotals()
	for _, seg := range s.Segments {
		if seg.Mode == "" || seg.Start == 0 || seg.End == 0 {
			continue
		}
		t.add(seg.Mode, seg.End-seg.Start)
	}
	t.StopCount = s.StopCount
	return t
}

// Pct formats part as a rounded percentage of whole; a zero whole is 0%.
func Pct(part, whole time.Duration) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(part)/float64(whole)*100)))
}
