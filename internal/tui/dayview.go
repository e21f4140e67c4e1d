package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fieldhand/mowtrack/internal/day"
)

type dayModel struct {
	tracker *day.Tracker
	clock   day.Clock
	width   int
	height  int

	formActive bool
	form       *huh.Form
	confirmed  *bool
}

func newDayModel(tr *day.Tracker, clock day.Clock) dayModel {
	c := false
	return dayModel{
		tracker:   tr,
		clock:     clock,
		confirmed: &c,
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func statusErr(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.StartDay):
			return d.run("Day started", "Day already running", d.tracker.StartDay)

		case key.Matches(msg, keys.EndDay):
			return d.run("Day ended", "No running day to end", d.tracker.EndDay)

		case key.Matches(msg, keys.Mode):
			idx := int(msg.String()[0] - '1')
			if idx < 0 || idx >= len(day.Modes) {
				return d, nil
			}
			mode := day.Modes[idx]
			return d.run("Switched to "+string(mode), "Can't switch right now", func() (bool, error) {
				return d.tracker.SwitchMode(mode)
			})

		case key.Matches(msg, keys.Pause):
			if d.tracker.State().IsPaused {
				return d.run("Resumed", "", d.tracker.Resume)
			}
			return d.run("Paused", "Nothing to pause", d.tracker.Pause)

		case key.Matches(msg, keys.Undo):
			return d.run("Undone", "Nothing to undo", d.tracker.Undo)

		case key.Matches(msg, keys.Reset):
			return d.showResetConfirm()
		}
	}
	return d, nil
}

// run executes a tracker operation and maps its outcome onto the status line.
func (d dayModel) run(accepted, rejected string, op func() (bool, error)) (dayModel, tea.Cmd) {
	ok, err := op()
	if err != nil {
		return d, statusErr(fmt.Sprintf("Error: %v", err))
	}
	if !ok {
		if rejected == "" {
			return d, nil
		}
		return d, status(rejected)
	}
	return d, status(accepted)
}

func (d dayModel) showResetConfirm() (dayModel, tea.Cmd) {
	*d.confirmed = false
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset today's data?").
				Description("Segments, totals and undo history for today are discarded. This cannot be undone.").
				Affirmative("Reset").
				Negative("Keep").
				Value(d.confirmed),
		),
	).WithShowHelp(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		if !*d.confirmed {
			return d, status("Reset cancelled")
		}
		if err := d.tracker.Reset(); err != nil {
			return d, statusErr(fmt.Sprintf("Reset error: %v", err))
		}
		return d, status("Today reset")
	}
	if d.form.State == huh.StateAborted {
		d.formActive = false
		return d, status("Reset cancelled")
	}
	return d, cmd
}

func (d dayModel) view() string {
	if d.formActive && d.form != nil {
		return d.form.View()
	}

	w := d.width - 4
	statusPanel := d.renderStatusPanel(w)
	totalsPanel := d.renderTotalsPanel(w)
	logPanel := d.renderLogPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, statusPanel, totalsPanel, logPanel)
}

func (d dayModel) renderStatusPanel(w int) string {
	s := d.tracker.State()
	now := d.clock.Now()
	totals := day.ComputeTotals(s, now)

	dateLine := titleStyle.Render(now.Format("Mon, Jan 2 2006"))

	var dayLine, hint string
	style := panelStyle
	switch {
	case !s.Started():
		dayLine = mutedStyle.Render("■  NOT STARTED")
		hint = "Press s to start the day."
	case s.Ended():
		dayLine = mutedStyle.Render("■  ENDED")
		hint = "Day ended. Export with e, or reset today with r."
	case s.IsPaused:
		dayLine = warningStyle.Render("⏸  PAUSED")
		hint = "Press space to resume, or x to end the day."
		style = activePanelStyle
	default:
		dayLine = successStyle.Render("●  RUNNING")
		hint = "Press 1-6 whenever you switch activity."
		style = activePanelStyle
	}

	var clockStyle lipgloss.Style
	switch {
	case s.IsPaused:
		clockStyle = timerPausedStyle
	case s.Running():
		clockStyle = timerRunningStyle
	default:
		clockStyle = timerStyle
	}
	total := clockStyle.Width(w - 6).Render(formatDuration(totals.Total))

	modeLine := mutedStyle.Render("Mode: —")
	if s.ActiveMode != "" {
		dot := lipgloss.NewStyle().Foreground(modeColors[string(s.ActiveMode)]).Render("●")
		modeLine = fmt.Sprintf("%s %s", dot, highlightStyle.Render(strings.ToUpper(string(s.ActiveMode))))
	} else if s.IsPaused && s.PausedMode != "" {
		modeLine = warningStyle.Render("paused in " + strings.ToUpper(string(s.PausedMode)))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		dateLine,
		total,
		dayLine,
		modeLine,
		mutedStyle.Render(hint),
	)
	return style.Width(w).Render(content)
}

func (d dayModel) renderTotalsPanel(w int) string {
	s := d.tracker.State()
	totals := day.ComputeTotals(s, d.clock.Now())

	var rows []string
	header := fmt.Sprintf("%s  %s   %s",
		titleStyle.Render("Totals"),
		highlightStyle.Render(formatDuration(totals.Total)),
		mutedStyle.Render(fmt.Sprintf("stops: %d", totals.StopCount)),
	)
	rows = append(rows, header)

	for _, m := range day.Modes {
		dot := lipgloss.NewStyle().Foreground(modeColors[string(m)]).Render("●")
		marker := " "
		if s.ActiveMode == m {
			marker = successStyle.Render("▸")
		}
		rows = append(rows, fmt.Sprintf("%s %s %-6s %s  %4s",
			marker, dot, m,
			formatDuration(totals.ByMode[m]),
			mutedStyle.Render(day.Pct(totals.ByMode[m], totals.Total)),
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dayModel) renderLogPanel(w int) string {
	s := d.tracker.State()
	now := d.clock.Now()

	type logItem struct {
		mode       day.Mode
		start, end int64
		live       bool
	}

	var items []logItem
	for _, seg := range s.Segments {
		items = append(items, logItem{mode: seg.Mode, start: seg.Start, end: seg.End})
	}
	if s.ActiveMode != "" && s.ActiveStartedAt != 0 && !s.Ended() {
		items = append(items, logItem{mode: s.ActiveMode, start: s.ActiveStartedAt, live: true})
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Log"))
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("No segments yet."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	// Newest first.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		endStr := "LIVE"
		endMs := now.UnixMilli()
		if !it.live {
			endStr = formatClock(it.end)
			endMs = it.end
		}
		dur := endMs - it.start
		if dur < 0 {
			dur = 0
		}
		dot := lipgloss.NewStyle().Foreground(modeColors[string(it.mode)]).Render("●")
		line := fmt.Sprintf("  %s %-6s %s → %s  %s",
			dot, strings.ToUpper(string(it.mode)),
			formatClock(it.start), endStr,
			formatDuration(millisToDuration(dur)),
		)
		if it.live {
			line = successStyle.Render(line)
		}
		rows = append(rows, line)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
