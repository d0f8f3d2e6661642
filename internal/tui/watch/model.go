// Package watch runs the event loop that keeps the index current while the
// vault changes.
package watch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/numdex/internal/state"
	"github.com/Paintersrp/numdex/internal/vault"
)

const maxHistory = 8

type Model struct {
	state    *state.State
	watcher  *state.VaultWatcher
	keys     keyMap
	history  []string
	status   string
	err      error
	width    int
	quitting bool
	now      func() time.Time
}

type keyMap struct {
	refresh key.Binding
	quit    key.Binding
}

// generatedMsg reports a finished generation triggered by trigger. handled
// is false when the event did not concern numbered folders.
type generatedMsg struct {
	trigger string
	handled bool
	err     error
}

func newKeyMap() keyMap {
	return keyMap{
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "regenerate"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func NewModel(s *state.State, w *state.VaultWatcher) (*Model, error) {
	if s == nil || s.Index == nil {
		return nil, fmt.Errorf("watch model requires a configured vault")
	}

	return &Model{
		state:   s,
		watcher: w,
		keys:    newKeyMap(),
		now:     time.Now,
	}, nil
}

// Init generates the index once, then starts consuming vault events.
func (m *Model) Init() tea.Cmd {
	return tea.Sequence(m.generate("startup"), m.watcher.Start())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, m.generate("manual")
		}

	case state.FolderEventMsg:
		return m, tea.Batch(m.handleEvent(msg.Event), m.watcher.Start())

	case state.VaultWatcherErrMsg:
		m.err = msg.Err
		m.state.Logger.WithError(msg.Err).Warn("Vault watcher error")
		return m, m.watcher.Start()

	case generatedMsg:
		if !msg.handled {
			return m, nil
		}
		m.err = msg.err
		m.record(msg)
		return m, m.state.IndexStatusCmd()

	case state.IndexStatsMsg:
		m.status = msg.Line
		return m, nil
	}

	return m, nil
}

func (m *Model) generate(trigger string) tea.Cmd {
	index := m.state.Index
	return func() tea.Msg {
		return generatedMsg{trigger: trigger, handled: true, err: index.Generate()}
	}
}

func (m *Model) handleEvent(ev vault.Event) tea.Cmd {
	index := m.state.Index
	return func() tea.Msg {
		handled := index.HandleEvent(ev)
		var err error
		if handled {
			err = index.Stats().LastError
		}
		return generatedMsg{trigger: ev.String(), handled: handled, err: err}
	}
}

func (m *Model) record(msg generatedMsg) {
	line := fmt.Sprintf("%s  %s", m.now().Format("15:04:05"), msg.trigger)
	if msg.err != nil {
		line += "  (failed)"
	}

	m.history = append(m.history, line)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("numdex watch"))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s → %s", m.state.Vault, m.state.Index.IndexPath())))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.history) == 0 {
		b.WriteString(mutedStyle.Render("Waiting for numbered folder changes..."))
		b.WriteString("\n")
	}
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"%s %s · %s %s",
		m.keys.refresh.Help().Key, m.keys.refresh.Help().Desc,
		m.keys.quit.Help().Key, m.keys.quit.Help().Desc,
	)))

	return appStyle.Render(b.String())
}

type Options struct {
	// Headless disables the renderer and keyboard input; progress is only
	// visible through the logger.
	Headless bool
	Input    io.Reader
	Output   io.Writer
}

// Run blocks until the program quits or is interrupted.
func Run(s *state.State, w *state.VaultWatcher, opts Options) error {
	model, err := NewModel(s, w)
	if err != nil {
		return err
	}

	var programOpts []tea.ProgramOption
	if opts.Headless {
		programOpts = append(programOpts, tea.WithoutRenderer(), tea.WithInput(nil))
	} else if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	_, err = tea.NewProgram(model, programOpts...).Run()
	return err
}
