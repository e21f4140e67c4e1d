package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldhand/mowtrack/internal/day"
)

// Storage is the read side of the day-key store.
type Storage interface {
	Get(key string) (string, bool, error)
	ListKeys() ([]string, error)
}

// DayRow is one day's contribution to a range summary.
type DayRow struct {
	Date         string // YYYY-MM-DD
	DayStartedAt int64  // ms epoch, zero when absent
	DayEndedAt   int64
	StopCount    int
	Total        time.Duration
	ByMode       map[day.Mode]time.Duration
}

// Summary aggregates stored days over a half-open date range.
type Summary struct {
	ByMode    map[day.Mode]time.Duration
	Total     time.Duration
	StopCount int
	Days      []DayRow // chronological ascending by date
}

// AggregateRange sums closed-segment totals and persisted stop counts across
// every stored day whose calendar date falls in [r.Start, r.End). Days with
// missing or malformed records are skipped. Matching is by local calendar
// date key, not timestamp arithmetic, so range edges never skew across
// timezones.
func AggregateRange(st Storage, r Range) (Summary, error) {
	keys, err := st.ListKeys()
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate: %w", err)
	}

	sum := Summary{ByMode: make(map[day.Mode]time.Duration, len(day.Modes))}
	for _, m := range day.Modes {
		sum.ByMode[m] = 0
	}

	startKey := day.DateKey(r.Start)
	endKey := day.DateKey(r.End)

	// Store keys come back sorted, so rows land in chronological order.
	for _, key := range keys {
		dateKey, ok := strings.CutPrefix(key, day.KeyPrefix)
		if !ok {
			continue
		}
		if _, err := time.ParseInLocation("2006-01-02", dateKey, r.Start.Location()); err != nil {
			continue
		}
		if dateKey < startKey || dateKey >= endKey {
			continue
		}

		raw, found, err := st.Get(key)
		if err != nil {
			return Summary{}, fmt.Errorf("aggregate %s: %w", dateKey, err)
		}
		if !found {
			continue
		}
		state, err := day.DecodeState(raw)
		if err != nil {
			continue
		}

		totals := day.ClosedTotals(state)
		row := DayRow{
			Date:         dateKey,
			DayStartedAt: state.DayStartedAt,
			DayEndedAt:   state.DayEndedAt,
			StopCount:    totals.StopCount,
			Total:        totals.Total,
			ByMode:       totals.ByMode,
		}
		sum.Days = append(sum.Days, row)

		for m, d := range totals.ByMode {
			sum.ByMode[m] += d
		}
		sum.Total += totals.Total
		sum.StopCount += totals.StopCount
	}

	return sum, nil
}
