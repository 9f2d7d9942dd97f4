// Package tui provides the BubbleTea-based terminal user interface.
// The first key press is the user gesture that primes audio output;
// after that the alert can be played on demand.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/alertbeep/internal/audio"
)

const (
	minDuration  = 100 * time.Millisecond
	maxDuration  = 5 * time.Second
	durationStep = 100 * time.Millisecond
)

// Player is the subset of the audio manager the TUI drives.
type Player interface {
	Prime()
	Play(d time.Duration)
	Status() audio.Status
}

// playedMsg is sent when a Play call returns.
type playedMsg struct {
	status audio.Status
}

// Model is the main TUI model.
type Model struct {
	player Player

	// Components
	help help.Model
	keys KeyMap

	// State
	duration time.Duration
	armed    bool
	playing  bool
	width    int

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a model playing alerts of duration d.
func New(player Player, d time.Duration) Model {
	if d <= 0 {
		d = audio.DefaultDuration
	}
	return Model{
		player:   player,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		duration: min(max(d, minDuration), maxDuration),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case playedMsg:
		m.playing = false
		m.statusErr = false
		m.statusMsg = fmt.Sprintf("played %d, dropped %d", msg.status.Played, msg.status.Dropped)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		if !m.armed {
			m.arm()
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Longer):
			m.duration = min(m.duration+durationStep, maxDuration)
		case key.Matches(msg, m.keys.Shorter):
			m.duration = max(m.duration-durationStep, minDuration)
		case key.Matches(msg, m.keys.Play):
			if !m.armed {
				return m, nil
			}
			m.playing = true
			return m, m.playCmd()
		}
	}

	return m, nil
}

// arm primes the player on the first key press.
func (m *Model) arm() {
	m.player.Prime()
	m.armed = m.player.Status().Primed
	if m.armed {
		m.statusMsg = "audio ready"
		m.statusErr = false
	} else {
		m.statusMsg = "no audio output available"
		m.statusErr = true
	}
}

// playCmd plays the alert off the UI goroutine. Requests made while an
// alert is in flight are dropped by the player.
func (m Model) playCmd() tea.Cmd {
	player, d := m.player, m.duration
	return func() tea.Msg {
		player.Play(d)
		return playedMsg{status: player.Status()}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	state := "press any key to enable audio"
	switch {
	case m.playing:
		state = "beeping"
	case m.armed:
		state = "armed"
	}

	s := titleStyle.Render("alertbeep") + "\n\n"
	s += labelStyle.Render("state:    ") + valueStyle.Render(state) + "\n"
	s += labelStyle.Render("duration: ") + valueStyle.Render(m.duration.String()) + "\n"

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg) + "\n"
	}

	s += "\n" + m.help.View(m.keys)
	return s
}

// RunOptions configures the TUI.
type RunOptions struct {
	Player   Player
	Duration time.Duration
}

// Run starts the TUI and blocks until it exits.
func Run(opts RunOptions) error {
	p := tea.NewProgram(New(opts.Player, opts.Duration))
	_, err := p.Run()
	return err
}
