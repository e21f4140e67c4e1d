package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/report"
)

type reportsModel struct {
	store  report.Storage
	clock  day.Clock
	width  int
	height int

	cursor  int // index into report.RangeKeys
	rng     report.Range
	summary report.Summary
	loaded  bool

	chart barchart.Model
}

func newReportsModel(st report.Storage, clock day.Clock) reportsModel {
	return reportsModel{
		store: st,
		clock: clock,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// currentRange resolves the selected preset against now.
func (r reportsModel) currentRange() report.Range {
	rng, _ := report.Resolve(report.RangeKeys[r.cursor], r.clock.Now())
	return rng
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		rng := r.currentRange()
		summary, err := report.AggregateRange(r.store, rng)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Report error: %v", err), isError: true}
		}
		return reportsDataMsg{rng: rng, summary: summary}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.rng = msg.rng
		r.summary = msg.summary
		r.loaded = true
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Down):
			if r.cursor < len(report.RangeKeys)-1 {
				r.cursor++
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	rowByDate := make(map[string]report.DayRow, len(r.summary.Days))
	for _, d := range r.summary.Days {
		rowByDate[d.Date] = d
	}

	var bars []barchart.BarData
	for d := r.rng.Start; d.Before(r.rng.End); d = d.AddDate(0, 0, 1) {
		dateStr := day.DateKey(d)
		label := d.Format("02")

		var values []barchart.BarValue
		if row, ok := rowByDate[dateStr]; ok {
			for _, m := range day.Modes {
				hours := row.ByMode[m].Hours()
				if hours == 0 {
					continue
				}
				style := lipgloss.NewStyle().Foreground(modeColors[string(m)])
				values = append(values, barchart.BarValue{
					Name:  string(m),
					Value: hours,
					Style: style,
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	selector := r.renderSelector()

	rng := r.rng
	if !r.loaded {
		rng = r.currentRange()
	}
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		rng.Start.Format("Jan 02"),
		rng.End.Add(-24*time.Hour).Format("Jan 02, 2006"),
	))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", selector, "  ", dateLabel,
	)

	chartView := r.chart.View()
	totals := r.renderTotals()
	table := r.renderDayTable(w)
	nav := mutedStyle.Render("  ↑/↓: range  e: export  b: backup  i: restore")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", totals, "", table, "", nav,
		),
	)
}

func (r reportsModel) renderSelector() string {
	var tabs []string
	for i, k := range report.RangeKeys {
		rng, _ := report.Resolve(k, r.clock.Now())
		if i == r.cursor {
			tabs = append(tabs, activeTabStyle.Render(rng.Label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(rng.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (r reportsModel) renderTotals() string {
	sum := r.summary

	var modeParts []string
	for _, m := range day.Modes {
		dot := lipgloss.NewStyle().Foreground(modeColors[string(m)]).Render("●")
		modeParts = append(modeParts, fmt.Sprintf("%s %s %s", dot, m, formatDuration(sum.ByMode[m])))
	}

	pctLine := fmt.Sprintf("  mow %s of total, drive %s of total, stops: %d",
		day.Pct(sum.ByMode[day.ModeMow], sum.Total),
		day.Pct(sum.ByMode[day.ModeDrive], sum.Total),
		sum.StopCount,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("  %s %s", titleStyle.Render("Total"), highlightStyle.Render(formatDuration(sum.Total))),
		"  "+strings.Join(modeParts, "  "),
		mutedStyle.Render(pctLine),
	)
}

func (r reportsModel) renderDayTable(w int) string {
	if len(r.summary.Days) == 0 {
		return mutedStyle.Render("  No days recorded in this range")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %8s %10s %10s", "Date", "Total", "Stops", "Mow", "Drive")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", minInt(w-6, 54))))

	for _, d := range r.summary.Days {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %8d %10s %10s",
			d.Date,
			formatDuration(d.Total),
			d.StopCount,
			formatDuration(d.ByMode[day.ModeMow]),
			formatDuration(d.ByMode[day.ModeDrive]),
		))
	}

	return strings.Join(rows, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
