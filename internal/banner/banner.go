package banner

import (
	"github.com/charmbracelet/lipgloss"

	"mm1calc/internal/tui/styles"
)

const ascii = `
               __   _____           __
   ____ ___   /  | <  / /___  ____ / /____
  / __ '__ \  / /  / / / ___/ __ '/ / ___/
 / / / / / / / /  / / / /__/ /_/ / / /__
/_/ /_/ /_/ /_/  /_/_/\___/\__,_/_/\___/  `

// GetString renders the logo and a one-line tagline.
func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	logo := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true).
		Render(ascii)
	tagline := renderer.NewStyle().
		Foreground(styles.ColorSubtle).
		Render("  M/M/1 queue calculator: utilization, waiting times, state probabilities")

	return "\n" + logo + "\n" + tagline + "\n"
}
