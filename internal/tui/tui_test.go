package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcull/clipcull/internal/pipeline"
)

func applyKey(m Model, r rune) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return updated.(Model)
}

func TestPositiveKeySetsVerdict(t *testing.T) {
	m := NewModel("/a/b.mp4", "diagnostic")
	m = applyKey(m, 'y')
	v, quit := m.Verdict()
	assert.Equal(t, pipeline.Positive, v)
	assert.False(t, quit)
	assert.True(t, m.Done())
}

func TestNegativeKeySetsVerdict(t *testing.T) {
	m := NewModel("/a/b.mp4", "diagnostic")
	m = applyKey(m, 'n')
	v, _ := m.Verdict()
	assert.Equal(t, pipeline.Negative, v)
}

func TestSkipKeySetsVerdict(t *testing.T) {
	m := NewModel("/a/b.mp4", "diagnostic")
	m = applyKey(m, 's')
	v, _ := m.Verdict()
	assert.Equal(t, pipeline.Skipped, v)
}

func TestQuitKeySetsQuitFlag(t *testing.T) {
	m := NewModel("/a/b.mp4", "diagnostic")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	_, quit := m.Verdict()
	assert.True(t, quit)
}

func TestViewIncludesPath(t *testing.T) {
	m := NewModel("/a/b.mp4", "diagnostic text")
	assert.Contains(t, m.View(), "b.mp4")
	assert.Contains(t, m.View(), "diagnostic text")
}

type fakeRunner struct {
	model tea.Model
	err   error
}

func (f fakeRunner) Run() (tea.Model, error) { return f.model, f.err }

func TestRequestVerdictExtractsFromFinalModel(t *testing.T) {
	m := NewModel("/a/b.mp4", "diag")
	m = applyKey(m, 'y')

	v, quit, err := RequestVerdict(fakeRunner{model: m})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Positive, v)
	assert.False(t, quit)
}
