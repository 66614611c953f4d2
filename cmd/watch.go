package cmd

import (
	"time"

	statusadapter "github.com/bnema/quotabar/internal/adapters/render/status"
	"github.com/bnema/quotabar/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously refresh and display usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from config, 30s)")

	return cmd
}

func runWatch(cmd *cobra.Command, app *app, interval time.Duration) error {
	if interval <= 0 {
		interval = app.cfg.RefreshInterval
	}

	reconciler := app.newReconciler()
	reconciler.Restore(cmd.Context())
	states := reconciler.Subscribe()

	scheduler := application.NewScheduler(reconciler.TriggerRefresh)
	scheduler.Start(interval)
	defer scheduler.Stop()

	model := watchModel{
		reconciler: reconciler,
		scheduler:  scheduler,
		states:     states,
		state:      reconciler.State(),
		now:        app.now,
		staleAfter: app.cfg.StaleAfter,
	}

	p := tea.NewProgram(
		model,
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	_, err := p.Run()
	return err
}

type watchStateMsg application.State

type watchTickMsg time.Time

var watchHelpStyle = lipgloss.NewStyle().Faint(true)

type watchModel struct {
	reconciler *application.Reconciler
	scheduler  *application.Scheduler
	states     <-chan application.State
	state      application.State
	now        func() time.Time
	staleAfter time.Duration
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), watchTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.scheduler.Stop()
			return m, tea.Quit
		case "r":
			m.reconciler.TriggerRefresh()
			return m, nil
		default:
			return m, nil
		}
	case watchStateMsg:
		m.state = application.State(msg)
		return m, m.waitForState()
	case watchTickMsg:
		// Once a second so countdowns and "fetched ... ago" stay current.
		return m, watchTick()
	default:
		return m, nil
	}
}

func (m watchModel) View() string {
	view := statusadapter.View(m.state, statusadapter.RenderOptions{
		Now:        m.now(),
		StaleAfter: m.staleAfter,
	})

	return view + "\n" + watchHelpStyle.Render("press r to refresh, q to quit")
}

func (m watchModel) waitForState() tea.Cmd {
	return func() tea.Msg {
		return watchStateMsg(<-m.states)
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}
