package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
)

func TestInputViewRoundTrip(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.ArrivalRate = 7.5
	cfg.NMax = 20

	got, err := NewInputView(cfg).GetConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestInputViewRejectsText(t *testing.T) {
	v := NewInputView(analysis.DefaultConfig())
	v.Inputs[FieldArrivalRate].SetValue("twelve")

	_, err := v.GetConfig()
	assert.ErrorIs(t, err, queue.ErrInvalidInput)

	v = NewInputView(analysis.DefaultConfig())
	v.Inputs[FieldNMax].SetValue("1.5")
	_, err = v.GetConfig()
	assert.ErrorIs(t, err, queue.ErrInvalidInput)
}

func TestInputViewFocusWraps(t *testing.T) {
	v := NewInputView(analysis.DefaultConfig())
	assert.Equal(t, FieldArrivalRate, v.Focus)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, FieldServiceTimeUnit, v.Focus)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FieldArrivalRate, v.Focus)
}

func TestResultsViewStates(t *testing.T) {
	v := NewResultsView(100, 40)
	assert.Contains(t, v.View(), "Nothing computed yet")

	r, err := analysis.Run(analysis.DefaultConfig())
	require.NoError(t, err)
	v.SetReport(r)
	assert.Len(t, v.Table.Rows(), len(r.Table))
	assert.Len(t, v.Spark.Data, len(r.Table))
	assert.Nil(t, v.Unstable)

	cfg := analysis.DefaultConfig()
	cfg.ArrivalRate = 30
	_, err = analysis.Run(cfg)
	require.Error(t, err)
	assert.True(t, v.SetError(cfg, err))
	assert.Nil(t, v.Report)
	assert.Empty(t, v.Table.Rows())

	assert.False(t, v.SetError(cfg, queue.ErrInvalidInput))
}
