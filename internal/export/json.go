package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/report"
)

type jsonExport struct {
	ExportedAt string           `json:"exported_at"`
	Range      string           `json:"range"`
	StopCount  int              `json:"stop_count"`
	TotalSec   int64            `json:"total_seconds"`
	Total      string           `json:"total"`
	Modes      map[string]int64 `json:"mode_seconds"`
	Days       []jsonDay        `json:"days"`
}

type jsonDay struct {
	Date      string           `json:"date"`
	StartedAt string           `json:"day_started_at,omitempty"`
	EndedAt   string           `json:"day_ended_at,omitempty"`
	StopCount int              `json:"stop_count"`
	TotalSec  int64            `json:"total_seconds"`
	Total     string           `json:"total"`
	Modes     map[string]int64 `json:"mode_seconds"`
}

// ToJSON writes the summary with the same figures as the CSV rows, stamped
// with now.
func ToJSON(sum report.Summary, label string, now time.Time, path string) error {
	out := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Range:      label,
		StopCount:  sum.StopCount,
		TotalSec:   int64(sum.Total.Seconds()),
		Total:      formatDuration(int64(sum.Total.Seconds())),
		Modes:      modeSeconds(sum.ByMode),
	}

	for _, d := range sum.Days {
		out.Days = append(out.Days, jsonDay{
			Date:      d.Date,
			StartedAt: isoOrEmpty(d.DayStartedAt),
			EndedAt:   isoOrEmpty(d.DayEndedAt),
			StopCount: d.StopCount,
			TotalSec:  int64(d.Total.Seconds()),
			Total:     formatDuration(int64(d.Total.Seconds())),
			Modes:     modeSeconds(d.ByMode),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func modeSeconds(by map[day.Mode]time.Duration) map[string]int64 {
	out := make(map[string]int64, len(by))
	for m, d := range by {
		out[string(m)] = int64(d.Seconds())
	}
	return out
}
