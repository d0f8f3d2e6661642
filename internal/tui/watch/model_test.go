package watch

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/Paintersrp/numdex/internal/state"
	indexsvc "github.com/Paintersrp/numdex/internal/services/index"
	"github.com/Paintersrp/numdex/internal/vault"
)

type stubIndex struct {
	state.IndexService
	generated int
	events    []vault.Event
	err       error
	stats     indexsvc.Stats
}

func (s *stubIndex) Generate() error {
	s.generated++
	s.stats.Runs++
	s.stats.Folders = 3
	s.stats.LastError = s.err
	return s.err
}

func (s *stubIndex) HandleEvent(ev vault.Event) bool {
	if !indexsvc.Relevant(ev) {
		return false
	}
	s.events = append(s.events, ev)
	_ = s.Generate()
	return true
}

func (s *stubIndex) Stats() indexsvc.Stats { return s.stats }
func (s *stubIndex) IndexPath() string     { return "Numbered Folders Index.md" }

func newTestModel(t *testing.T, index *stubIndex) *Model {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := &state.State{Vault: "/vault", Index: index, Logger: logger, RootStatus: &state.RootStatus{}}
	m, err := NewModel(st, nil)
	if err != nil {
		t.Fatalf("NewModel returned error: %v", err)
	}
	m.now = func() time.Time { return time.Date(2024, time.January, 2, 9, 30, 0, 0, time.Local) }
	return m
}

// drain runs cmd and feeds every resulting message back through Update.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil && depth < 10; depth++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(t, m, c)
			}
			return
		}
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestNewModelRequiresIndex(t *testing.T) {
	if _, err := NewModel(&state.State{}, nil); err == nil {
		t.Fatalf("expected error without index service")
	}
}

func TestFolderEventRegenerates(t *testing.T) {
	index := &stubIndex{}
	m := newTestModel(t, index)

	_, cmd := m.Update(state.FolderEventMsg{Event: vault.Event{Op: vault.FolderRenamed, Path: "01 - New", OldPath: "01 - Old"}})
	drain(t, m, cmd)

	if index.generated != 1 {
		t.Fatalf("expected one generation, got %d", index.generated)
	}
	if len(m.history) != 1 || !strings.Contains(m.history[0], "folder renamed: 01 - Old -> 01 - New") {
		t.Fatalf("unexpected history: %v", m.history)
	}
	if m.status != "Idx: 3 folders" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestIrrelevantEventIsIgnored(t *testing.T) {
	index := &stubIndex{}
	m := newTestModel(t, index)

	_, cmd := m.Update(state.FolderEventMsg{Event: vault.Event{Op: vault.FolderCreated, Path: "Inbox"}})
	drain(t, m, cmd)

	if index.generated != 0 || len(m.history) != 0 {
		t.Fatalf("expected no generation, got %d runs and history %v", index.generated, m.history)
	}
}

func TestManualRefreshAndFailure(t *testing.T) {
	index := &stubIndex{err: errors.New("disk full")}
	m := newTestModel(t, index)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	drain(t, m, cmd)

	if index.generated != 1 {
		t.Fatalf("expected manual generation, got %d", index.generated)
	}
	if m.err == nil || !strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
	if !strings.Contains(m.history[0], "manual  (failed)") {
		t.Fatalf("unexpected history: %v", m.history)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	m := newTestModel(t, &stubIndex{})
	for i := 0; i < maxHistory+3; i++ {
		m.Update(generatedMsg{trigger: "manual", handled: true})
	}
	if len(m.history) != maxHistory {
		t.Fatalf("expected %d history lines, got %d", maxHistory, len(m.history))
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, &stubIndex{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}
