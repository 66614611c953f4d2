package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type refreshFinishedMsg struct {
	err error
}

// refreshSpinner animates a dot spinner while a refresh runs, then clears
// itself so the rendered status starts on a clean line.
type refreshSpinner struct {
	dot  spinner.Model
	run  tea.Cmd
	err  error
	done bool
}

func newRefreshSpinner(run tea.Cmd) refreshSpinner {
	dot := spinner.New(spinner.WithSpinner(spinner.Dot))
	dot.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	return refreshSpinner{dot: dot, run: run}
}

func (m refreshSpinner) Init() tea.Cmd {
	return tea.Batch(m.run, m.dot.Tick)
}

func (m refreshSpinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshFinishedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.dot, cmd = m.dot.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m refreshSpinner) View() string {
	if m.done {
		return ""
	}

	return m.dot.View() + " Fetching usage..."
}

func runFetchSpinner(ctx context.Context, output io.Writer, fetch func(context.Context) error) error {
	run := func() tea.Msg {
		return refreshFinishedMsg{err: fetch(ctx)}
	}

	p := tea.NewProgram(
		newRefreshSpinner(run),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}

	model, ok := final.(refreshSpinner)
	if !ok {
		return fmt.Errorf("unexpected spinner model %T", final)
	}

	return model.err
}
