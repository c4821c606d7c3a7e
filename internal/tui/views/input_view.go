package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
	"mm1calc/internal/tui/styles"
)

// Field indices
const (
	FieldArrivalRate = iota
	FieldServiceTime
	FieldUnitConversion
	FieldN
	FieldNMax
	FieldTimeUnit
	FieldServiceTimeUnit
	fieldCount
)

type InputView struct {
	Inputs []textinput.Model
	Focus  int

	// Carried through unchanged; there is no field for them.
	percentiles []float64

	Viewport viewport.Model

	Width  int
	Height int
}

func NewInputView(cfg analysis.Config) InputView {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].PromptStyle = styles.Subtle
		inputs[i].TextStyle = styles.Subtle
		inputs[i].Width = 12
	}

	inputs[FieldArrivalRate].Prompt = "Arrival rate λ: "
	inputs[FieldArrivalRate].SetValue(formatFloat(cfg.ArrivalRate))

	inputs[FieldServiceTime].Prompt = "Mean service time: "
	inputs[FieldServiceTime].SetValue(formatFloat(cfg.ServiceTime))

	inputs[FieldUnitConversion].Prompt = "Conversion factor: "
	inputs[FieldUnitConversion].SetValue(formatFloat(cfg.UnitConversion))

	inputs[FieldN].Prompt = "Exact P(N = n), n: "
	inputs[FieldN].SetValue(strconv.Itoa(cfg.N))

	inputs[FieldNMax].Prompt = "Table up to n: "
	inputs[FieldNMax].SetValue(strconv.Itoa(cfg.NMax))

	inputs[FieldTimeUnit].Prompt = "Time unit: "
	inputs[FieldTimeUnit].SetValue(cfg.TimeUnit)

	inputs[FieldServiceTimeUnit].Prompt = "Service time unit: "
	inputs[FieldServiceTimeUnit].SetValue(cfg.ServiceTimeUnit)

	m := InputView{
		Inputs:      inputs,
		percentiles: append([]float64(nil), cfg.Percentiles...),
		Viewport:    viewport.New(0, 0),
	}
	m, _ = m.focusCmd()
	return m
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (m InputView) GetHelp() string {
	timeUnit := m.Inputs[FieldTimeUnit].Value()
	svcUnit := m.Inputs[FieldServiceTimeUnit].Value()

	switch m.Focus {
	case FieldArrivalRate:
		return fmt.Sprintf("Average number of customers arriving per %s (λ).\nMust be zero or positive.\n\nThe queue is stable only when λ < μ.", timeUnit)
	case FieldServiceTime:
		return fmt.Sprintf("Average time to serve one customer, in %ss.\nMust be positive.\n\nμ = conversion factor / service time.", svcUnit)
	case FieldUnitConversion:
		return fmt.Sprintf("How many %ss make one %s.\nExample: 60 minutes per hour.", svcUnit, timeUnit)
	case FieldN:
		return "Compute the exact probability of n customers in the system:\nP(N = n) = (1 − ρ) ρⁿ"
	case FieldNMax:
		return fmt.Sprintf("Largest n shown in the probability table.\nAt most %d.", analysis.MaxTableSize)
	case FieldTimeUnit:
		return "Unit of λ and of the reported times (Ws, Wq)."
	case FieldServiceTimeUnit:
		return "Unit of the service time input. Ws and Wq are\nalso shown converted to this unit."
	}
	return ""
}

func (m InputView) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputView) Update(msg tea.Msg) (InputView, tea.Cmd) {
	var cmds []tea.Cmd
	dir := 0

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "enter", "ctrl+n":
			dir = 1
		case "shift+tab", "up":
			dir = -1
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Viewport.Width = msg.Width - 4
		m.Viewport.Height = msg.Height - 4
	}

	if dir != 0 {
		m.Focus = (m.Focus + dir + fieldCount) % fieldCount
		var cmd tea.Cmd
		m, cmd = m.focusCmd()
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	var vpCmd tea.Cmd
	m.Viewport, vpCmd = m.Viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

func (m InputView) focusCmd() (InputView, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 1)
	for i := range m.Inputs {
		if i == m.Focus {
			cmds = append(cmds, m.Inputs[i].Focus())
			m.Inputs[i].PromptStyle = styles.Active
			m.Inputs[i].TextStyle = styles.Text
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].PromptStyle = styles.Subtle
			m.Inputs[i].TextStyle = styles.Subtle
		}
	}
	return m, tea.Batch(cmds...)
}

func (m InputView) renderInput(idx int) string {
	style := styles.InputNormal
	if idx == m.Focus {
		style = styles.InputActive
	}
	return style.Width(44).Render(m.Inputs[idx].View())
}

func (m InputView) View() string {
	inputCol := strings.Builder{}
	inputCol.WriteString(styles.Section.Render("Queue"))
	inputCol.WriteString("\n")
	for _, idx := range []int{FieldArrivalRate, FieldServiceTime, FieldUnitConversion} {
		inputCol.WriteString(m.renderInput(idx))
		inputCol.WriteString("\n")
	}
	inputCol.WriteString(styles.Section.Render("Probabilities"))
	inputCol.WriteString("\n")
	for _, idx := range []int{FieldN, FieldNMax} {
		inputCol.WriteString(m.renderInput(idx))
		inputCol.WriteString("\n")
	}
	inputCol.WriteString(styles.Section.Render("Units"))
	inputCol.WriteString("\n")
	for _, idx := range []int{FieldTimeUnit, FieldServiceTimeUnit} {
		inputCol.WriteString(m.renderInput(idx))
		inputCol.WriteString("\n")
	}

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorBorder).
		Padding(1, 2).
		Width(45).
		Height(12)

	help := styles.Subtle.Bold(true).Render("Information") + "\n\n" +
		styles.Text.Foreground(styles.ColorStable).Render(m.GetHelp())

	mainRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(50).Render(inputCol.String()),
		helpBox.Render(help),
	)

	m.Viewport.SetContent(mainRow)
	return m.Viewport.View()
}

// GetConfig parses the fields. Range checks are left to analysis.Run; only
// text that is not a number is rejected here.
func (m InputView) GetConfig() (analysis.Config, error) {
	cfg := analysis.Config{
		TimeUnit:        strings.TrimSpace(m.Inputs[FieldTimeUnit].Value()),
		ServiceTimeUnit: strings.TrimSpace(m.Inputs[FieldServiceTimeUnit].Value()),
		Percentiles:     append([]float64(nil), m.percentiles...),
	}

	floats := []struct {
		field int
		name  string
		dst   *float64
	}{
		{FieldArrivalRate, "arrival rate", &cfg.ArrivalRate},
		{FieldServiceTime, "service time", &cfg.ServiceTime},
		{FieldUnitConversion, "conversion factor", &cfg.UnitConversion},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(m.Inputs[f.field].Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %q is not a number", queue.ErrInvalidInput, f.name, raw)
		}
		*f.dst = v
	}

	ints := []struct {
		field int
		name  string
		dst   *int
	}{
		{FieldN, "n", &cfg.N},
		{FieldNMax, "table size", &cfg.NMax},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(m.Inputs[f.field].Value())
		v, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %q is not an integer", queue.ErrInvalidInput, f.name, raw)
		}
		*f.dst = v
	}

	if cfg.TimeUnit == "" {
		cfg.TimeUnit = "hour"
	}
	if cfg.ServiceTimeUnit == "" {
		cfg.ServiceTimeUnit = "minute"
	}
	return cfg, nil
}
