package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"mm1calc/internal/analysis"
	"mm1calc/internal/storage"
	"mm1calc/internal/tui/styles"
)

type HistoryView struct {
	Store *storage.Store
	Table table.Model

	items   []storage.HistoryItem
	loadErr error

	SelectedConfig *analysis.Config // set on Enter, consumed by the app

	Width  int
	Height int
}

func NewHistoryView(store *storage.Store) HistoryView {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "λ", Width: 10},
		{Title: "μ", Width: 10},
		{Title: "ρ", Width: 8},
		{Title: "Ls", Width: 10},
		{Title: "Ws", Width: 10},
		{Title: "Verdict", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	m := HistoryView{
		Store: store,
		Table: t,
	}
	m.Refresh()
	return m
}

// Refresh reloads this session's analyses, newest first.
func (m *HistoryView) Refresh() {
	if m.Store == nil {
		return
	}

	m.items, m.loadErr = m.Store.List()
	rows := make([]table.Row, len(m.items))
	for i, item := range m.items {
		rows[i] = table.Row{
			item.Timestamp.Format("15:04:05"),
			fmt.Sprintf("%.4g", item.Config.ArrivalRate),
			formatRate(item.Summary.ServiceRate),
			fmt.Sprintf("%.4f", item.Summary.Rho),
			fmt.Sprintf("%.4f", item.Summary.Ls),
			fmt.Sprintf("%.4f", item.Summary.Ws),
			item.Summary.Verdict.String(),
		}
	}
	m.Table.SetRows(rows)
}

func (m HistoryView) Init() tea.Cmd {
	return nil
}

func (m HistoryView) Update(msg tea.Msg) (HistoryView, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetWidth(msg.Width - 4)
		m.Table.SetHeight(max(msg.Height-6, 3))

	case tea.KeyMsg:
		if msg.String() == "enter" {
			if item := m.GetSelectedItem(); item != nil {
				cfg := item.Config
				m.SelectedConfig = &cfg
				return m, nil
			}
		}
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m HistoryView) View() string {
	s := strings.Builder{}
	s.WriteString(styles.Title.Render("📜 This Session"))
	s.WriteString("\n\n")

	switch {
	case m.loadErr != nil:
		s.WriteString(styles.Error.Render("Could not load history: " + m.loadErr.Error()))
	case len(m.Table.Rows()) == 0:
		s.WriteString(styles.Subtle.Render("No analyses yet.\nCompute one with Ctrl+R; history is kept until you quit."))
	default:
		s.WriteString(styles.Box.Render(m.Table.View()))
	}
	s.WriteString("\n\n")
	s.WriteString(styles.Subtle.Render("[Enter] Load inputs  [Ctrl+P] Export selected"))
	return s.String()
}

func (m HistoryView) GetSelectedItem() *storage.HistoryItem {
	idx := m.Table.Cursor()
	if idx >= 0 && idx < len(m.items) {
		return &m.items[idx]
	}
	return nil
}
