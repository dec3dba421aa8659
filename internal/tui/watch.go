package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
)

// Source feeds the watch view from a running daemon.
type Source interface {
	// Fetch returns the current state with the transcript filled in.
	Fetch() (pipeline.Snapshot, error)
	Send(cmd byte) error
}

type snapshotMsg struct {
	snap pipeline.Snapshot
	err  error
}

type tickMsg time.Time

type sentMsg struct {
	err error
}

// keyCommands maps keys to control bus commands.
var keyCommands = map[string]byte{
	"r": bus.CmdToggle,
	"p": bus.CmdTranscribe,
	"c": bus.CmdCancel,
	"z": bus.CmdReset,
	"y": bus.CmdCopy,
}

type watchModel struct {
	source   Source
	interval time.Duration
	spinner  spinner.Model

	snap     pipeline.Snapshot
	err      error
	notice   string
	loaded   bool
	width    int
	quitting bool
}

func newWatchModel(source Source, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StyleHighlight
	return watchModel{source: source, interval: interval, spinner: s}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick(), m.spinner.Tick)
}

func (m watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.source.Fetch()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) send(cmd byte) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{err: m.source.Send(cmd)}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		if cmd, ok := keyCommands[key]; ok {
			m.notice = ""
			return m, m.send(cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.loaded = true
		}

	case sentMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	view := Logo() + "\n" + Tagline() + "\n\n"
	switch {
	case m.err != nil:
		view += StyleError.Render(fmt.Sprintf("Daemon unreachable: %v", m.err))
	case !m.loaded:
		view += StyleMuted.Render("Connecting...")
	default:
		if m.snap.Status == pipeline.Processing {
			view += m.spinner.View() + " "
		}
		view += RenderSnapshot(m.snap)
	}

	if m.notice != "" {
		view += "\n\n" + StyleWarning.Render(m.notice)
	}
	view += "\n\n" + StyleSubtle.Render("r record/stop • p transcribe • c cancel • z reset • y copy • q quit")
	return view + "\n"
}

// Watch runs the live status view until the user quits.
func Watch(source Source, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	_, err := tea.NewProgram(newWatchModel(source, interval), tea.WithAltScreen()).Run()
	return err
}
