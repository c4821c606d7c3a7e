package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mm1calc/internal/analysis"
	"mm1calc/internal/export"
	"mm1calc/internal/queue"
	"mm1calc/internal/storage"
	"mm1calc/internal/tui/styles"
	"mm1calc/internal/tui/views"
)

type ClearStatusMsg struct{}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

type ViewID int

const (
	ViewInput ViewID = iota
	ViewResults
	ViewHistory
)

type Model struct {
	Store *storage.Store

	Width  int
	Height int

	CurrentView ViewID
	MenuItems   []string

	InputView   views.InputView
	ResultsView views.ResultsView
	HistoryView views.HistoryView

	// Last successful analysis, the target of Ctrl+P on the results view.
	Report *analysis.Report

	StatusMsg string
}

// NewModel starts on the input view seeded with cfg. store may be nil, in
// which case nothing is recorded.
func NewModel(cfg analysis.Config, store *storage.Store) Model {
	return Model{
		Store:       store,
		CurrentView: ViewInput,
		MenuItems:   []string{"[1] Inputs", "[2] Results", "[3] History"},
		InputView:   views.NewInputView(cfg),
		ResultsView: views.NewResultsView(0, 0),
		HistoryView: views.NewHistoryView(store),
	}
}

func (m Model) Init() tea.Cmd {
	return m.InputView.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ClearStatusMsg:
		m.StatusMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit

		case "ctrl+h":
			m.HistoryView.Refresh()
			m.CurrentView = ViewHistory
			return m, nil

		case "ctrl+right":
			m.CurrentView++
			if m.CurrentView > ViewHistory {
				m.CurrentView = ViewInput
			}
			return m, nil
		case "ctrl+left":
			m.CurrentView--
			if m.CurrentView < ViewInput {
				m.CurrentView = ViewHistory
			}
			return m, nil

		case "ctrl+r":
			cmd := m.compute()
			return m, cmd

		case "ctrl+p":
			cmd := m.export()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		content := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 7}

		m.InputView, _ = m.InputView.Update(content)
		m.ResultsView, _ = m.ResultsView.Update(content)
		m.HistoryView, _ = m.HistoryView.Update(content)
		return m, nil
	}

	var viewCmd tea.Cmd
	switch m.CurrentView {
	case ViewInput:
		m.InputView, viewCmd = m.InputView.Update(msg)
	case ViewResults:
		m.ResultsView, viewCmd = m.ResultsView.Update(msg)
	case ViewHistory:
		m.HistoryView, viewCmd = m.HistoryView.Update(msg)
		if m.HistoryView.SelectedConfig != nil {
			m.InputView = views.NewInputView(*m.HistoryView.SelectedConfig)
			m.InputView, _ = m.InputView.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height - 7})
			m.HistoryView.SelectedConfig = nil
			m.CurrentView = ViewInput
		}
	}
	cmds = append(cmds, viewCmd)

	return m, tea.Batch(cmds...)
}

// compute runs the analysis for the current inputs and switches to results.
// Invalid input stays on the current view with a status message.
func (m *Model) compute() tea.Cmd {
	cfg, err := m.InputView.GetConfig()
	if err == nil {
		var report *analysis.Report
		report, err = analysis.Run(cfg)
		if err == nil {
			m.Report = report
			m.ResultsView.SetReport(report)
			m.CurrentView = ViewResults
			m.saveHistory(report)
			return clearStatusCmd()
		}
	}

	if m.ResultsView.SetError(cfg, err) {
		m.Report = nil
		m.CurrentView = ViewResults
		m.StatusMsg = "Unstable system: λ ≥ μ."
		return clearStatusCmd()
	}

	m.StatusMsg = statusForError(err)
	return clearStatusCmd()
}

func statusForError(err error) string {
	if errors.Is(err, queue.ErrInvalidInput) {
		return "Invalid input: " + strings.TrimPrefix(err.Error(), queue.ErrInvalidInput.Error()+": ")
	}
	return fmt.Sprintf("Analysis failed: %v", err)
}

func (m *Model) saveHistory(r *analysis.Report) {
	if m.Store == nil {
		return
	}
	if err := m.Store.Save(storage.NewHistoryItem(r)); err != nil {
		m.StatusMsg = fmt.Sprintf("Error saving history: %v", err)
		return
	}
	m.HistoryView.Refresh()
}

func (m *Model) export() tea.Cmd {
	var (
		report *analysis.Report
		base   string
	)

	switch m.CurrentView {
	case ViewResults:
		if m.Report == nil {
			m.StatusMsg = "No results to export yet."
			return clearStatusCmd()
		}
		report = m.Report
		base = fmt.Sprintf("mm1calc_report_%s", report.Timestamp.Format("20060102-150405"))
	case ViewHistory:
		item := m.HistoryView.GetSelectedItem()
		if item == nil || item.Report == nil {
			m.StatusMsg = "Nothing selected."
			return clearStatusCmd()
		}
		report = item.Report
		base = fmt.Sprintf("mm1calc_history_%s", item.ID)
	default:
		return nil
	}

	if err := export.ExportAll(report, base); err != nil {
		m.StatusMsg = fmt.Sprintf("Export Failed: %v", err)
	} else {
		m.StatusMsg = fmt.Sprintf("Exported to %s.{csv,json,yaml}", base)
	}
	return clearStatusCmd()
}

func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	nav := strings.Builder{}
	for i, item := range m.MenuItems {
		if ViewID(i) == m.CurrentView {
			nav.WriteString(styles.TabActive.Render(item))
		} else {
			nav.WriteString(styles.TabBase.Render(item))
		}
	}
	navBar := styles.FooterBase.Width(m.Width).Render(nav.String())

	contentStr := ""
	switch m.CurrentView {
	case ViewInput:
		contentStr = m.InputView.View()
	case ViewResults:
		contentStr = m.ResultsView.View()
	case ViewHistory:
		contentStr = m.HistoryView.View()
	}
	content := styles.Panel.Width(m.Width - 2).Height(m.Height - 6).Render(contentStr)

	keys1 := []string{
		styles.RenderKey("Ctrl+<->", "View"),
		styles.RenderKey("Tab", "Field"),
		styles.RenderKey("↑/↓", "Scroll"),
	}
	keys2 := []string{
		styles.RenderKey("Ctrl+R", "Compute"),
		styles.RenderKey("Ctrl+P", "Export"),
		styles.RenderKey("Ctrl+H", "History"),
		styles.RenderKey("Ctrl+Q", "Quit"),
	}
	footer := lipgloss.JoinVertical(lipgloss.Left,
		styles.FooterBase.Width(m.Width).Render(strings.Join(keys1, "   ")),
		styles.FooterBase.Width(m.Width).Render(strings.Join(keys2, "   ")),
	)

	if m.StatusMsg != "" {
		status := styles.Box.BorderForeground(styles.ColorHighlight).Render(m.StatusMsg)
		return lipgloss.JoinVertical(lipgloss.Left, navBar, content, status, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, navBar, content, footer)
}
