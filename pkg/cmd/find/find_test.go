package find

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Paintersrp/numdex/internal/state"
)

func TestFindNeedsTerminal(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("vault", t.TempDir())

	s := &state.State{Home: t.TempDir(), LogOutput: io.Discard}
	if err := s.Load(""); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	original := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = original })

	cmd := NewCmdFind(s)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"projects"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestFindRejectsExtraArguments(t *testing.T) {
	cmd := NewCmdFind(&state.State{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"a", "b"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for two queries")
	}
}
