package report

import "time"

// RangeKey names a preset reporting period.
type RangeKey string

const (
	RangeToday     RangeKey = "today"
	RangeYesterday RangeKey = "yesterday"
	RangeThisWeek  RangeKey = "thisWeek"
	RangeLastWeek  RangeKey = "lastWeek"
	RangeThisMonth RangeKey = "thisMonth"
	RangeLastMonth RangeKey = "lastMonth"
)

// RangeKeys lists the presets in selector order.
var RangeKeys = []RangeKey{
	RangeToday, RangeYesterday,
	RangeThisWeek, RangeLastWeek,
	RangeThisMonth, RangeLastMonth,
}

// Range is a half-open local-date interval [Start, End) with a label used in
// headings and generated filenames.
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday 00:00 local on or before t.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	wd := d.Weekday()
	if wd == time.Sunday {
		return d.AddDate(0, 0, -6)
	}
	return d.AddDate(0, 0, -int(wd-time.Monday))
}

// startOfMonth returns the first of t's month, 00:00 local.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Resolve maps a preset to its concrete interval relative to now. The second
// return is false for an unrecognized key.
func Resolve(key RangeKey, now time.Time) (Range, bool) {
	today := startOfDay(now)
	switch key {
	case RangeToday:
		return Range{Start: today, End: today.AddDate(0, 0, 1), Label: "today"}, true
	case RangeYesterday:
		return Range{Start: today.AddDate(0, 0, -1), End: today, Label: "yesterday"}, true
	case RangeThisWeek:
		start := startOfWeek(now)
		return Range{Start: start, End: start.AddDate(0, 0, 7), Label: "this-week"}, true
	case RangeLastWeek:
		start := startOfWeek(now).AddDate(0, 0, -7)
		return Range{Start: start, End: start.AddDate(0, 0, 7), Label: "last-week"}, true
	case RangeThisMonth:
		start := startOfMonth(now)
		return Range{Start: start, End: start.AddDate(0, 1, 0), Label: "this-month"}, true
	case RangeLastMonth:
		end := startOfMonth(now)
		return Range{Start: end.AddDate(0, -1, 0), End: end, Label: "last-month"}, true
	}
	return Range{}, false
}

// Custom builds a range over arbitrary local dates, end exclusive.
func Custom(start, end time.Time, label string) Range {
	return Range{Start: startOfDay(start), End: startOfDay(end), Label: label}
}
