package styles

import (
	"github.com/charmbracelet/lipgloss"

	"mm1calc/internal/queue"
)

// --- Color Palette ---
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorStable    = lipgloss.Color("#04B575")
	ColorUnstable  = lipgloss.Color("#FF5F87")
	ColorIdle      = lipgloss.Color("#5FAFFF") // degenerate queue, nobody arrives
	ColorWarning   = lipgloss.Color("#FFAF00")
	ColorText      = lipgloss.Color("#FAFAFA")
	ColorSubtle    = lipgloss.Color("#767676")
	ColorBorder    = lipgloss.Color("#3C3C3C")
	ColorBg        = lipgloss.Color("#1A1A1A")
	ColorHighlight = lipgloss.Color("#3E3E3E")
	ColorBanner    = ColorPrimary
)

// Gauge gradient for the utilization bar, from idle to saturated.
const (
	GaugeLow  = "#04B575"
	GaugeHigh = "#FF5F87"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSubtle)

	Section = lipgloss.NewStyle().Foreground(ColorSubtle).Bold(true)

	Text   = lipgloss.NewStyle().Foreground(ColorText)
	Subtle = lipgloss.NewStyle().Foreground(ColorSubtle)

	Value  = lipgloss.NewStyle().Foreground(ColorStable).Bold(true)
	Active = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	Error = lipgloss.NewStyle().Foreground(ColorUnstable)
	Warn  = lipgloss.NewStyle().Foreground(ColorWarning)

	// Error panel shown instead of results for an unstable queue.
	Alert = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(ColorUnstable).
		Foreground(ColorUnstable).
		Padding(1, 2)

	KeyKey  = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	KeyDesc = lipgloss.NewStyle().Foreground(ColorSubtle)

	InputActive = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(ColorPrimary).Padding(0, 1)
	InputNormal = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)

	// Metric card
	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Margin(0, 1)

	TabBase = lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Padding(0, 2)

	TabActive = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorPrimary).
			Padding(0, 2)

	FooterBase = lipgloss.NewStyle().
			Height(1).
			Padding(0, 1)
)

// VerdictStyle colors a stability verdict.
func VerdictStyle(v queue.Verdict) lipgloss.Style {
	switch v {
	case queue.Stable:
		return Value
	case queue.Degenerate:
		return lipgloss.NewStyle().Foreground(ColorIdle).Bold(true)
	default:
		return Error.Bold(true)
	}
}

func RenderKey(key, desc string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		KeyKey.Render("<"+key+">"),
		" ",
		KeyDesc.Render(desc),
	)
}
