package initialize

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Paintersrp/numdex/internal/config"
	"github.com/Paintersrp/numdex/internal/state"
)

func loadState(t *testing.T, home string) *state.State {
	t.Helper()
	s := &state.State{Home: home, LogOutput: io.Discard}
	if err := s.Load(""); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return s
}

func runInit(t *testing.T, s *state.State, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCmdInit(s)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	return out.String()
}

func TestInitAsksBeforeReplacingVault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	first := t.TempDir()
	second := t.TempDir()

	runInit(t, loadState(t, home), first, "--index-file", "Meta/Index.md")

	var prompts []string
	answer := false
	original := confirmOverwrite
	confirmOverwrite = func(prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return answer, nil
	}
	t.Cleanup(func() { confirmOverwrite = original })

	if out := runInit(t, loadState(t, home), second); !strings.Contains(out, "Aborted") {
		t.Fatalf("expected abort, got %q", out)
	}
	if len(prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(prompts))
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ws, _ := cfg.ActiveWorkspace(); ws.VaultDir != first {
		t.Fatalf("expected vault to stay %q, got %q", first, ws.VaultDir)
	}

	answer = true
	runInit(t, loadState(t, home), second)

	cfg, err = config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	ws, _ := cfg.ActiveWorkspace()
	if ws.VaultDir != second {
		t.Fatalf("expected vault %q, got %q", second, ws.VaultDir)
	}
	if ws.IndexFile != "Meta/Index.md" {
		t.Fatalf("expected index file to carry over, got %q", ws.IndexFile)
	}
}

func TestInitForceSkipsPrompt(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	runInit(t, loadState(t, home), t.TempDir())

	original := confirmOverwrite
	confirmOverwrite = func(string) (bool, error) {
		t.Fatalf("prompt must not run with --force")
		return false, nil
	}
	t.Cleanup(func() { confirmOverwrite = original })

	out := runInit(t, loadState(t, home), t.TempDir(), "--force")
	if !strings.Contains(out, `Initialized workspace "default"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInitRejectsMissingVault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewCmdInit(loadState(t, t.TempDir()))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"/does/not/exist"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing vault")
	}
}
