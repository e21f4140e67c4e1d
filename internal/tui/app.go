package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fieldhand/mowtrack/internal/backup"
	"github.com/fieldhand/mowtrack/internal/day"
	"github.com/fieldhand/mowtrack/internal/export"
	"github.com/fieldhand/mowtrack/internal/report"
	"github.com/fieldhand/mowtrack/internal/store"
)

// tickInterval drives the live total refresh while a day is running.
const tickInterval = 500 * time.Millisecond

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	tracker *day.Tracker
	clock   day.Clock
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	restoreActive bool
	restoreForm   *huh.Form
	restorePath   *string

	dayView dayModel
	reports reportsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, tr *day.Tracker, clock day.Clock) App {
	h := help.New()
	h.ShowAll = false

	path := ""
	return App{
		store:       s,
		tracker:     tr,
		clock:       clock,
		activeView:  viewDay,
		dayView:     newDayModel(tr, clock),
		reports:     newReportsModel(s, clock),
		help:        h,
		restorePath: &path,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.reports.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dayView.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.restoreActive {
			return a.updateRestoreForm(msg)
		}
		if a.dayView.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			if a.activeView == viewDay {
				a.activeView = viewReports
				return a, a.reports.refresh()
			}
			a.activeView = viewDay
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Backup):
			return a, a.doBackup()
		case key.Matches(msg, keys.Restore):
			return a.showRestoreForm()
		}

	case tickMsg:
		// Totals are recomputed from state on every render; the tick only
		// schedules the next redraw. It never mutates anything.
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case backupDoneMsg:
		a.status = "Backup written to " + msg.path
		a.statusErr = false
		return a, nil

	case restoreDoneMsg:
		// Reload here, on the event loop: views read the tracker on every
		// render, so the swap must not happen on a command goroutine. A
		// restored record for today becomes visible immediately.
		if err := a.tracker.Reload(); err != nil {
			a.status = fmt.Sprintf("Restore reload error: %v", err)
			a.statusErr = true
			return a, nil
		}
		a.status = fmt.Sprintf("Restored %d day(s)", msg.count)
		a.statusErr = false
		return a, a.reports.refresh()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDay:
		a.dayView, cmd = a.dayView.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	}
	return a, cmd
}

// --- Export picker ---

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// doExport aggregates the reports view's current range and writes it to the
// home directory.
func (a App) doExport(format int) tea.Cmd {
	rng := a.reports.currentRange()
	return func() tea.Msg {
		summary, err := report.AggregateRange(a.store, rng)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()

		var path string
		if format == 0 {
			path = filepath.Join(home, export.Filename(rng.Label, "csv"))
			if err := export.ToCSV(summary, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, export.Filename(rng.Label, "json"))
			if err := export.ToJSON(summary, rng.Label, a.clock.Now(), path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

// --- Backup / restore ---

func (a App) doBackup() tea.Cmd {
	return func() tea.Msg {
		doc, err := backup.Build(a.store, a.clock.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
		}
		raw, err := backup.Encode(doc)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		name := fmt.Sprintf("mowtrack-backup-%s.json", day.DateKey(a.clock.Now()))
		path := filepath.Join(home, name)
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
		}
		return backupDoneMsg{path: path}
	}
}

func (a App) showRestoreForm() (tea.Model, tea.Cmd) {
	*a.restorePath = ""
	a.restoreForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Restore from backup").
				Description("Path to a mowtrack backup file. Days in the file overwrite stored days; everything else is kept.").
				Placeholder("~/mowtrack-backup-2025-06-02.json").
				Value(a.restorePath),
		),
	).WithShowHelp(true)
	a.restoreActive = true
	return a, a.restoreForm.Init()
}

func (a App) updateRestoreForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.restoreForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.restoreForm = f
	}

	if a.restoreForm.State == huh.StateCompleted {
		a.restoreActive = false
		return a, a.doRestore(*a.restorePath)
	}
	if a.restoreForm.State == huh.StateAborted {
		a.restoreActive = false
		a.status = "Restore cancelled"
		a.statusErr = false
		return a, nil
	}
	return a, cmd
}

func (a App) doRestore(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return statusMsg{text: "Restore cancelled", isError: false}
		}
		if home, err := os.UserHomeDir(); err == nil && len(path) > 1 && path[:2] == "~/" {
			path = filepath.Join(home, path[2:])
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Restore error: %v", err), isError: true}
		}
		count, err := backup.Restore(a.store, string(raw))
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Restore error: %v", err), isError: true}
		}
		return restoreDoneMsg{count: count}
	}
}

// --- View ---

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDay:
		content = a.dayView.view()
	case viewReports:
		content = a.reports.view()
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}
	if a.restoreActive && a.restoreForm != nil {
		content = a.restoreForm.View()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("mowtrack")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		st := mutedStyle
		if a.statusErr {
			st = errorStyle
		}
		status = st.Render(" " + a.status)
	}

	// Live day indicator.
	dayInfo := ""
	s := a.tracker.State()
	if s.Running() {
		totals := day.ComputeTotals(s, a.clock.Now())
		if s.IsPaused {
			dayInfo = warningStyle.Render(" ⏸ " + formatDuration(totals.Total))
		} else {
			dayInfo = successStyle.Render(" ● " + formatDuration(totals.Total))
		}
	}

	left := footerStyle.Render(helpView)
	right := dayInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
