package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/report"
)

// ToCSV writes one row per day in the summary, with per-mode second columns
// in fixed mode order.
func ToCSV(sum report.Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "day_started_at", "day_ended_at", "stop_count", "total_seconds"}
	for _, m := range day.Modes {
		header = append(header, string(m)+"_seconds")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, d := range sum.Days {
		row := []string{
			d.Date,
			isoOrEmpty(d.DayStartedAt),
			isoOrEmpty(d.DayEndedAt),
			fmt.Sprintf("%d", d.StopCount),
			fmt.Sprintf("%d", int64(d.Total.Seconds())),
		}
		for _, m := range day.Modes {
			row = append(row, fmt.Sprintf("%d", int64(d.ByMode[m].Seconds())))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func isoOrEmpty(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format(time.RFC3339)
}

// Filename builds the export filename for a range label, e.g.
// mowtrack-this-week.csv.
func Filename(label, ext string) string {
	return fmt.Sprintf("mowtrack-%s.%s", label, ext)
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
