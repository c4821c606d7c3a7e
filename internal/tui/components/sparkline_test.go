package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSparklineGraph(t *testing.T) {
	s := NewSparkline(10, "P(N = n)", lipgloss.NewStyle())
	s.SetData([]float64{1, 0.5, 0, 0.25})

	assert.Equal(t, 1.0, s.Max)
	assert.Equal(t, "█▄ ▂", s.Graph())
}

func TestSparklineTruncates(t *testing.T) {
	s := NewSparkline(3, "", lipgloss.NewStyle())
	s.SetData([]float64{4, 3, 2, 1, 100})

	assert.Len(t, s.Data, 3)
	assert.Equal(t, 4.0, s.Max)
}

func TestSparklineEmpty(t *testing.T) {
	s := NewSparkline(0, "x", lipgloss.NewStyle())
	assert.Empty(t, s.View())

	s = NewSparkline(5, "x", lipgloss.NewStyle())
	s.SetData(nil)
	assert.Empty(t, s.Graph())
}
