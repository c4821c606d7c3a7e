package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
	"mm1calc/internal/tui/components"
	"mm1calc/internal/tui/styles"
)

type ResultsView struct {
	Report   *analysis.Report
	Unstable *queue.UnstableError
	Config   analysis.Config

	Gauge progress.Model
	Table table.Model
	Spark components.Sparkline

	Viewport viewport.Model

	Width  int
	Height int
}

func NewResultsView(width, height int) ResultsView {
	gauge := progress.New(
		progress.WithGradient(styles.GaugeLow, styles.GaugeHigh),
		progress.WithWidth(max(width-20, 10)),
	)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "n", Width: 6},
			{Title: "P(N = n)", Width: 12},
			{Title: "P(N ≤ n)", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return ResultsView{
		Gauge:    gauge,
		Table:    t,
		Spark:    components.NewSparkline(max(width-10, 10), "P(N = n)", styles.Active),
		Viewport: viewport.New(max(width-4, 0), max(height-4, 0)),
		Width:    width,
		Height:   height,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.ColorPrimary)
	s.Selected = s.Selected.
		Foreground(styles.ColorBg).
		Background(styles.ColorPrimary).
		Bold(true)
	return s
}

// SetReport shows a computed analysis.
func (m *ResultsView) SetReport(r *analysis.Report) {
	m.Report = r
	m.Unstable = nil
	m.Config = r.Config

	rows := make([]table.Row, len(r.Table))
	data := make([]float64, len(r.Table))
	for i, e := range r.Table {
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.N),
			fmt.Sprintf("%.6f", e.P),
			fmt.Sprintf("%.6f", e.Cumulative),
		}
		data[i] = e.P
	}
	m.Table.SetRows(rows)
	m.Table.GotoTop()
	m.Spark.SetData(data)
}

// SetError shows an unstable verdict. Other errors are not rendered here.
func (m *ResultsView) SetError(cfg analysis.Config, err error) bool {
	var unstable *queue.UnstableError
	if !errors.As(err, &unstable) {
		return false
	}
	m.Report = nil
	m.Unstable = unstable
	m.Config = cfg
	m.Table.SetRows(nil)
	m.Spark.SetData(nil)
	return true
}

func (m ResultsView) Init() tea.Cmd {
	return nil
}

func (m ResultsView) Update(msg tea.Msg) (ResultsView, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Gauge.Width = max(msg.Width-20, 10)
		m.Spark.Width = max(msg.Width-10, 10)
		m.Viewport.Width = max(msg.Width-4, 0)
		m.Viewport.Height = max(msg.Height-4, 0)

	case tea.KeyMsg:
		// j/k and arrows scroll the probability table, pgup/pgdown the page.
		switch msg.String() {
		case "pgup", "pgdown":
		default:
			var cmd tea.Cmd
			m.Table, cmd = m.Table.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ResultsView) View() string {
	s := strings.Builder{}

	switch {
	case m.Unstable != nil:
		s.WriteString(styles.Title.Render("🚫 Stability Check"))
		s.WriteString("\n\n")
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			MakeCard("λ per "+m.Config.TimeUnit, styles.Text.Render(fmt.Sprintf("%.4f", m.Unstable.ArrivalRate))),
			MakeCard("μ per "+m.Config.TimeUnit, styles.Text.Render(fmt.Sprintf("%.4f", m.Unstable.ServiceRate))),
			MakeCard("Verdict", styles.VerdictStyle(m.Unstable.Verdict()).Render(m.Unstable.Verdict().String())),
		))
		s.WriteString("\n\n")
		s.WriteString(styles.Alert.Render("Unstable system: λ ≥ μ.\nM/M/1 steady-state formulas require λ < μ."))

	case m.Report != nil:
		s.WriteString(m.reportView())

	default:
		s.WriteString(styles.Title.Render("📈 Results"))
		s.WriteString("\n\n")
		s.WriteString(styles.Subtle.Render("Nothing computed yet.\nFill in the inputs and press Ctrl+R."))
	}

	m.Viewport.SetContent(s.String())
	return m.Viewport.View()
}

func (m ResultsView) reportView() string {
	r := m.Report
	unit := r.Config.TimeUnit
	s := strings.Builder{}

	s.WriteString(styles.Title.Render("📈 Results"))
	s.WriteString("\n\n")

	for _, w := range r.Warnings {
		s.WriteString(styles.Warn.Render("⚠ " + w))
		s.WriteString("\n\n")
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		MakeCard("μ per "+unit, styles.Value.Render(formatRate(r.ServiceRate))),
		MakeCard("ρ", styles.Value.Render(fmt.Sprintf("%.4f", r.Utilization.Rho))),
		MakeCard("P0 (empty)", styles.Value.Render(fmt.Sprintf("%.4f", r.Utilization.P0))),
		MakeCard("Verdict", styles.VerdictStyle(r.Verdict).Render(r.Verdict.String())),
	))
	s.WriteString("\n")

	s.WriteString(styles.Subtle.Render("Utilization "))
	s.WriteString(m.Gauge.ViewAs(r.Utilization.Rho))
	s.WriteString("\n\n")

	svcUnit := r.Config.ServiceTimeUnit
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		MakeCard("Ls customers", styles.Text.Render(fmt.Sprintf("%.4f", r.Measures.Ls))),
		MakeCard("Lq customers", styles.Text.Render(fmt.Sprintf("%.4f", r.Measures.Lq))),
		MakeCard("Ws "+unit+"s", styles.Text.Render(fmt.Sprintf("%.4f", r.Measures.Ws))),
		MakeCard("Wq "+unit+"s", styles.Text.Render(fmt.Sprintf("%.4f", r.Measures.Wq))),
	))
	s.WriteString("\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		MakeCard("Ws "+svcUnit+"s", styles.Text.Render(fmt.Sprintf("%.4f", r.WsService))),
		MakeCard("Wq "+svcUnit+"s", styles.Text.Render(fmt.Sprintf("%.4f", r.WqService))),
		MakeCard(fmt.Sprintf("P(N = %d)", r.Exact.N), styles.Active.Render(fmt.Sprintf("%.6f", r.Exact.P))),
	))
	s.WriteString("\n\n")

	s.WriteString(m.Spark.View())
	s.WriteString("\n\n")

	left := styles.Section.Render("State probabilities") + "\n" + styles.Box.Render(m.Table.View())
	right := ""
	if len(r.Quantiles) > 0 {
		q := strings.Builder{}
		q.WriteString(styles.Section.Render("Time percentiles (" + unit + "s)"))
		q.WriteString("\n")
		q.WriteString(styles.Subtle.Render(fmt.Sprintf("%6s %12s %12s", "p", "system", "queue")))
		q.WriteString("\n")
		for _, qt := range r.Quantiles {
			q.WriteString(fmt.Sprintf("%6.2f %12.4f %12.4f\n", qt.P, qt.Sojourn, qt.Waiting))
		}
		right = q.String()
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right))

	return s.String()
}

func formatRate(mu queue.ServiceRate) string {
	if v, finite := mu.Value(); finite {
		return fmt.Sprintf("%.4f", v)
	}
	return mu.String()
}

func MakeCard(title, value string) string {
	return styles.Box.Width(18).Align(lipgloss.Center).Render(
		fmt.Sprintf("%s\n%s", styles.Subtle.Render(title), value),
	)
}
