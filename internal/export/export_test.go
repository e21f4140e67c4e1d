package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/report"
)

func sampleSummary() report.Summary {
	started := time.Date(2025, 6, 2, 8, 0, 0, 0, time.Local).UnixMilli()
	ended := time.Date(2025, 6, 2, 16, 0, 0, 0, time.Local).UnixMilli()

	dayModes := map[day.Mode]time.Duration{
		day.ModeDrive: 10 * time.Minute,
		day.ModeMow:   50 * time.Minute,
		day.ModeBreak: 0,
		day.ModeGas:   0,
		day.ModeEquip: 0,
		day.ModeOther: 0,
	}

	return report.Summary{
		ByMode:    dayModes,
		Total:     time.Hour,
		StopCount: 2,
		Days: []report.DayRow{
			{
				Date:         "2025-06-02",
				DayStartedAt: started,
				DayEndedAt:   ended,
				StopCount:    2,
				Total:        time.Hour,
				ByMode:       dayModes,
			},
			{
				Date:   "2025-06-03",
				ByMode: map[day.Mode]time.Duration{},
			},
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(sampleSummary(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 day rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}

	wantHeader := []string{
		"date", "day_started_at", "day_ended_at", "stop_count", "total_seconds",
		"drive_seconds", "mow_seconds", "break_seconds", "gas_seconds", "equip_seconds", "other_seconds",
	}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2025-06-02" {
		t.Fatalf("date = %q", row[0])
	}
	if row[1] == "" || row[2] == "" {
		t.Fatal("started/ended timestamps should be present")
	}
	if row[3] != "2" {
		t.Fatalf("stop_count = %q, want 2", row[3])
	}
	if row[4] != "3600" {
		t.Fatalf("total_seconds = %q, want 3600", row[4])
	}
	if row[5] != "600" || row[6] != "3000" {
		t.Fatalf("drive/mow seconds = %q/%q, want 600/3000", row[5], row[6])
	}

	// A day that never started has empty timestamps and zero columns.
	empty := records[2]
	if empty[1] != "" || empty[2] != "" {
		t.Fatal("absent timestamps should export empty")
	}
	if empty[4] != "0" {
		t.Fatalf("empty day total = %q, want 0", empty[4])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(sampleSummary(), "this-week", now, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ExportedAt string           `json:"exported_at"`
		Range      string           `json:"range"`
		TotalSec   int64            `json:"total_seconds"`
		Total      string           `json:"total"`
		Modes      map[string]int64 `json:"mode_seconds"`
		Days       []struct {
			Date     string `json:"date"`
			TotalSec int64  `json:"total_seconds"`
		} `json:"days"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.ExportedAt != "2025-06-04T15:30:00Z" {
		t.Fatalf("exported_at = %q", out.ExportedAt)
	}
	if out.Range != "this-week" {
		t.Fatalf("range = %q", out.Range)
	}
	if out.TotalSec != 3600 || out.Total != "01:00:00" {
		t.Fatalf("total = %d / %q", out.TotalSec, out.Total)
	}
	if out.Modes["mow"] != 3000 {
		t.Fatalf("mow seconds = %d, want 3000", out.Modes["mow"])
	}
	if len(out.Days) != 2 || out.Days[0].Date != "2025-06-02" {
		t.Fatalf("days = %+v", out.Days)
	}
}

// ============================================================
// Filenames
// ============================================================

func TestFilename(t *testing.T) {
	if got := Filename("this-week", "csv"); got != "mowtrack-this-week.csv" {
		t.Fatalf("Filename = %q", got)
	}
	if got := Filename("2025-06-02", "json"); got != "mowtrack-2025-06-02.json" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{36000, "10:00:00"},
	}
	for _, c := range cases {
		if got := formatDuration(c.secs); got != c.want {
			t.Fatalf("formatDuration(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}
