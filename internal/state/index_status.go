package state

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// IndexStatsMsg notifies subscribers that the root status line was refreshed
// from the latest generation statistics.
type IndexStatsMsg struct {
	Line string
}

// IndexStatusCmd reads the index service statistics, updates the shared root
// status line, and returns a message consumers can use to rerender.
func (s *State) IndexStatusCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		line := formatIndexStatus(s.Index)
		if s.RootStatus != nil {
			s.RootStatus.Set(line)
		}
		return IndexStatsMsg{Line: line}
	}
}

func formatIndexStatus(svc IndexService) string {
	if svc == nil {
		return ""
	}

	stats := svc.Stats()
	if stats.Runs == 0 {
		return "Idx: not generated"
	}

	parts := []string{fmt.Sprintf("Idx: %d folders", stats.Folders)}
	if !stats.LastGenerated.IsZero() {
		parts = append(parts, fmt.Sprintf("updated %s", formatGeneratedTime(stats.LastGenerated)))
	}
	if stats.Failures > 0 {
		parts = append(parts, fmt.Sprintf("failures %d", stats.Failures))
	}

	return strings.Join(parts, " · ")
}

func formatGeneratedTime(t time.Time) string {
	return t.Local().Format("15:04")
}
