// Package tui renders a live connectivity widget. It subscribes to the
// watcher's observable state when the program starts and releases the
// subscription exactly once when the user quits.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rdfernandes/connwatch/internal/metrics"
	"github.com/rdfernandes/connwatch/internal/models"
	"github.com/rdfernandes/connwatch/internal/watcher"
)

const refreshInterval = 2 * time.Second

type stateChangeMsg models.ConnState

type refreshMsg time.Time

// Model is the bubbletea model for the live status view.
type Model struct {
	source  watcher.Source
	changes chan models.ConnState
	dispose func()

	spinner  spinner.Model
	state    models.ConnState
	latest   models.Sample
	haveData bool
	summary  metrics.AvailabilitySummary
	lastFlip time.Time
	width    int
	quitting bool
}

// New builds the model around a running watcher.
func New(source watcher.Source) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := &Model{
		source:  source,
		changes: make(chan models.ConnState, 8),
		spinner: sp,
		state:   source.State().Get(),
	}
	m.dispose = source.State().Observe(func(_, next models.ConnState) {
		select {
		case m.changes <- next:
		default:
		}
	})
	return m
}

// Init starts the spinner, the refresh tick and the change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange(), m.refresh())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.dispose()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case stateChangeMsg:
		m.state = models.ConnState(msg)
		m.lastFlip = time.Now()
		m.pull()
		return m, m.waitForChange()

	case refreshMsg:
		m.pull()
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// waitForChange blocks on the subscription channel. After dispose the
// channel stops receiving and the outstanding command is abandoned when
// the program exits.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		return stateChangeMsg(<-m.changes)
	}
}

func (m *Model) refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m *Model) pull() {
	if latest, ok := m.source.Latest(); ok {
		m.latest = latest
		m.haveData = true
	}
	m.summary = metrics.ComputeAvailability(m.source.History())
}
