package report

import (
	"testing"
	"time"

	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedDay stores a finished day under dateKey with one closed segment per
// mode/duration pair and the given stop count.
func seedDay(t *testing.T, s *store.Store, dateKey string, stopCount int, segs ...day.Segment) {
	t.Helper()
	started := int64(1)
	ended := int64(2)
	if len(segs) > 0 {
		started = segs[0].Start
		ended = segs[len(segs)-1].End
	}
	state := &day.DayState{
		DayStartedAt: started,
		DayEndedAt:   ended,
		StopCount:    stopCount,
		Segments:     segs,
	}
	raw, err := day.EncodeState(state)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(day.StorageKey(dateKey), raw); err != nil {
		t.Fatal(err)
	}
}

func seg(mode day.Mode, startMs, durMs int64) day.Segment {
	return day.Segment{Mode: mode, Start: startMs, End: startMs + durMs}
}

// ============================================================
// AggregateRange
// ============================================================

func TestAggregateRangeSums(t *testing.T) {
	s := newTestStore(t)
	seedDay(t, s, "2025-06-02", 1, seg(day.ModeDrive, 0, 600000), seg(day.ModeMow, 600000, 1800000))
	seedDay(t, s, "2025-06-03", 2, seg(day.ModeMow, 0, 1200000))

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 9), "w"))
	if err != nil {
		t.Fatal(err)
	}

	if sum.ByMode[day.ModeDrive] != 10*time.Minute {
		t.Fatalf("drive = %v, want 10m", sum.ByMode[day.ModeDrive])
	}
	if sum.ByMode[day.ModeMow] != 50*time.Minute {
		t.Fatalf("mow = %v, want 50m", sum.ByMode[day.ModeMow])
	}
	if sum.Total != time.Hour {
		t.Fatalf("total = %v, want 1h", sum.Total)
	}
	if sum.StopCount != 3 {
		t.Fatalf("stopCount = %d, want 3", sum.StopCount)
	}
	if len(sum.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(sum.Days))
	}
}

func TestAggregateRangeEdgesExclusive(t *testing.T) {
	s := newTestStore(t)
	seedDay(t, s, "2025-06-01", 1, seg(day.ModeMow, 0, 1000))
	seedDay(t, s, "2025-06-02", 1, seg(day.ModeMow, 0, 1000))
	seedDay(t, s, "2025-06-09", 1, seg(day.ModeMow, 0, 1000))

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 9), "w"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Days) != 1 || sum.Days[0].Date != "2025-06-02" {
		t.Fatalf("expected only 2025-06-02, got %+v", sum.Days)
	}
}

func TestAggregateRangeEmpty(t *testing.T) {
	s := newTestStore(t)

	r, _ := Resolve(RangeThisWeek, wednesday)
	sum, err := AggregateRange(s, r)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 0 || sum.StopCount != 0 || len(sum.Days) != 0 {
		t.Fatalf("empty range should be all zeros, got %+v", sum)
	}
	for _, m := range day.Modes {
		if sum.ByMode[m] != 0 {
			t.Fatalf("%s = %v, want 0", m, sum.ByMode[m])
		}
	}
}

func TestAggregateRangeSkipsMalformed(t *testing.T) {
	s := newTestStore(t)
	seedDay(t, s, "2025-06-02", 1, seg(day.ModeMow, 0, 60000))
	s.Set(day.StorageKey("2025-06-03"), "{{{broken")

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 9), "w"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Days) != 1 {
		t.Fatalf("malformed day should be skipped, got %d days", len(sum.Days))
	}
}

func TestAggregateRangeSkipsForeignKeys(t *testing.T) {
	s := newTestStore(t)
	seedDay(t, s, "2025-06-02", 1, seg(day.ModeMow, 0, 60000))
	s.Set("somethingelse:2025-06-03", "{}")
	s.Set(day.StorageKey("not-a-date"), "{}")

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 9), "w"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Days) != 1 {
		t.Fatalf("foreign keys should be skipped, got %d days", len(sum.Days))
	}
}

func TestAggregateRangeChronological(t *testing.T) {
	s := newTestStore(t)
	seedDay(t, s, "2025-06-05", 0, seg(day.ModeMow, 0, 1000))
	seedDay(t, s, "2025-06-03", 0, seg(day.ModeMow, 0, 1000))
	seedDay(t, s, "2025-06-04", 0, seg(day.ModeMow, 0, 1000))

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 9), "w"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2025-06-03", "2025-06-04", "2025-06-05"}
	if len(sum.Days) != len(want) {
		t.Fatalf("days = %d, want %d", len(sum.Days), len(want))
	}
	for i, w := range want {
		if sum.Days[i].Date != w {
			t.Fatalf("Days[%d] = %s, want %s", i, sum.Days[i].Date, w)
		}
	}
}

func TestAggregateUsesPersistedStopCount(t *testing.T) {
	// The stored counter is authoritative, not re-derived from segments.
	s := newTestStore(t)
	seedDay(t, s, "2025-06-02", 9, seg(day.ModeDrive, 0, 1000))

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 3), "d"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.StopCount != 9 {
		t.Fatalf("stopCount = %d, want persisted 9", sum.StopCount)
	}
}

func TestAggregateIgnoresStaleLiveSegment(t *testing.T) {
	// An unfinished past day still aggregates, but only its closed segments.
	s := newTestStore(t)
	state := &day.DayState{
		DayStartedAt:    1000,
		ActiveMode:      day.ModeMow,
		ActiveStartedAt: 61000,
		Segments:        []day.Segment{seg(day.ModeDrive, 1000, 60000)},
	}
	raw, _ := day.EncodeState(state)
	s.Set(day.StorageKey("2025-06-02"), raw)

	sum, err := AggregateRange(s, Custom(date(2025, 6, 2), date(2025, 6, 3), "d"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != time.Minute {
		t.Fatalf("total = %v, want 1m (live segment excluded)", sum.Total)
	}
}
