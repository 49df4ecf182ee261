// Package watch_tui renders live ensemble progress while the members run.
package watch_tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hydrotools/summaflow/pkg/ensemble"
	"github.com/hydrotools/summaflow/pkg/sim"
)

const refreshInterval = 250 * time.Millisecond

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

type doneMsg struct{}

// Model drives the watch view for one running ensemble.
type Model struct {
	ens       *ensemble.Ensemble
	completed <-chan struct{}
	spinner   spinner.Model
	summary   []ensemble.MemberSummary
	done      bool
	started   time.Time
}

// New builds the watch model over an ensemble whose run completion is
// signaled on completed.
func New(ens *ensemble.Ensemble, completed <-chan struct{}) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = runningStyle
	return Model{
		ens:       ens,
		completed: completed,
		spinner:   sp,
		summary:   ens.Summary(),
		started:   time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	completed := m.completed
	return tea.Batch(
		m.spinner.Tick,
		tick(),
		func() tea.Msg {
			<-completed
			return doneMsg{}
		},
	)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The pool keeps running in the background; quitting only leaves
		// the view.
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.summary = m.ens.Summary()
		if m.done {
			return m, tea.Quit
		}
		return m, tick()
	case doneMsg:
		m.done = true
		m.summary = m.ens.Summary()
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m Model) View() string {
	out := titleStyle.Render("ensemble") + "  " +
		dimStyle.Render(fmt.Sprintf("%d members, %s", len(m.summary), time.Since(m.started).Round(time.Second))) + "\n\n"
	for _, s := range m.summary {
		out += fmt.Sprintf("  %s %s  %s\n", m.statusGlyph(s.Status), s.Identifier, dimStyle.Render(formatDuration(s.Duration)))
	}
	if m.done {
		out += "\n" + dimStyle.Render("done, press q to exit") + "\n"
	} else {
		out += "\n" + dimStyle.Render("running, press q to detach") + "\n"
	}
	return out
}

func (m Model) statusGlyph(status sim.Status) string {
	switch status {
	case sim.StatusSuccess:
		return successStyle.Render("✓")
	case sim.StatusFailed:
		return failedStyle.Render("✗")
	case sim.StatusRunning:
		return m.spinner.View()
	default:
		return dimStyle.Render("·")
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}

// Run starts the ensemble in the background, shows the watch view, and
// blocks until every member has finished even when the view is left early.
func Run(ens *ensemble.Ensemble) error {
	completed := make(chan struct{})
	go func() {
		ens.Run(context.Background())
		close(completed)
	}()
	_, err := tea.NewProgram(New(ens, completed)).Run()
	<-completed
	return err
}
