// Package tui implements the interactive ranker's human-facing loop: a
// bubbletea program that shows one candidate's diagnostic view (tokens,
// discriminative n-grams, per-classifier scores, distribution plots) and
// waits for a keypress deciding Positive, Negative, or Skipped.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipcull/clipcull/internal/pipeline"
)

var (
	pathStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type keyMap struct {
	Positive key.Binding
	Negative key.Binding
	Skip     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Positive, k.Negative, k.Skip, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Positive: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "positive")),
	Negative: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "negative")),
	Skip:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea program backing one verdict request.
type Model struct {
	Path       string
	Diagnostic string

	help    help.Model
	verdict pipeline.Verdict
	quit    bool
	done    bool
}

// NewModel constructs a Model for one candidate awaiting a verdict.
func NewModel(path, diagnostic string) Model {
	return Model{Path: path, Diagnostic: diagnostic, help: help.New()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Positive):
		m.verdict, m.done = pipeline.Positive, true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Negative):
		m.verdict, m.done = pipeline.Negative, true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Skip):
		m.verdict, m.done = pipeline.Skipped, true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Quit):
		m.verdict, m.done, m.quit = pipeline.Skipped, true, true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	return fmt.Sprintf("%s\n%s\n\n%s\n", pathStyle.Render(m.Path), m.Diagnostic, helpStyle.Render(m.help.View(keys)))
}

// Verdict returns the decision reached once the program has quit, and
// whether the user asked to quit the whole session rather than just decide
// this one candidate.
func (m Model) Verdict() (verdict pipeline.Verdict, quit bool) {
	return m.verdict, m.quit
}

// Done reports whether a verdict (or quit) was reached.
func (m Model) Done() bool { return m.done }

// Runner is the capability RequestVerdict needs from *tea.Program, narrowed
// so tests can substitute a fake driver instead of actually entering raw
// terminal mode.
type Runner interface {
	Run() (tea.Model, error)
}

// RequestVerdict runs program to completion and extracts the verdict and
// quit signal from its final Model.
func RequestVerdict(program Runner) (pipeline.Verdict, bool, error) {
	final, err := program.Run()
	if err != nil {
		return pipeline.Skipped, false, err
	}
	m, ok := final.(Model)
	if !ok {
		return pipeline.Skipped, false, fmt.Errorf("tui: unexpected final model type %T", final)
	}
	verdict, quit := m.Verdict()
	return verdict, quit, nil
}
