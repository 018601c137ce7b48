// internal/tui/spinner.go
package tui

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user cancels a spinner run.
var ErrInterrupted = errors.New("interrupted")

// Work is a blocking call performed while the spinner is shown.
type Work func(ctx context.Context) (string, error)

type workDoneMsg struct {
	result string
	err    error
}

// thinkingModel shows a spinner with a label until its work finishes.
type thinkingModel struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	cancel  context.CancelFunc
	done    bool
	result  string
	err     error
}

func newThinkingModel(ctx context.Context, label string, work Work) (thinkingModel, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m := thinkingModel{
		spinner: s,
		label:   label,
		cancel:  cancel,
		run: func() tea.Msg {
			out, err := work(ctx)
			return workDoneMsg{result: out, err: err}
		},
	}
	return m, ctx
}

func (m thinkingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m thinkingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			m.done = true
			m.err = ErrInterrupted
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m thinkingModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunWithSpinner performs work while showing label behind a spinner on out.
// When out is not a terminal the work runs without any animation.
func RunWithSpinner(ctx context.Context, out io.Writer, label string, work Work) (string, error) {
	if !IsTerminal(out) {
		return work(ctx)
	}

	m, _ := newThinkingModel(ctx, label, work)
	defer m.cancel()

	final, err := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(thinkingModel)
	if !ok {
		return "", errors.New("unexpected spinner model")
	}
	return fm.result, fm.err
}
