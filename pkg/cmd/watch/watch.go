package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/numdex/internal/constants"
	"github.com/Paintersrp/numdex/internal/filelock"
	"github.com/Paintersrp/numdex/internal/state"
	watchtui "github.com/Paintersrp/numdex/internal/tui/watch"
)

func NewCmdWatch(s *state.State) *cobra.Command {
	var headless bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the index updated while the vault changes",
		Long: heredoc.Doc(`
			Generate the index once, then regenerate it whenever a numbered
			folder is created, deleted or renamed, or a folder note appears or
			goes away. Runs until interrupted.

			Only one watcher can run per vault.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.RequireVault(); err != nil {
				return err
			}

			lock := filelock.NewFileLock(s.LockPath(constants.WatchLockFile))
			if err := lock.TryLock(); err != nil {
				if errors.Is(err, filelock.ErrLocked) {
					return fmt.Errorf("another watcher is already running for %s", s.Vault)
				}
				return err
			}
			defer lock.Unlock()

			watcher, err := s.WatchVault()
			if err != nil {
				return err
			}

			interactive := !headless &&
				term.IsTerminal(int(os.Stdin.Fd())) &&
				term.IsTerminal(int(os.Stdout.Fd()))

			if interactive {
				logFile, err := openWatchLog(s.Home)
				if err != nil {
					return err
				}
				defer logFile.Close()
				s.Logger.SetOutput(logFile)
			}

			return watchtui.Run(s, watcher, watchtui.Options{
				Headless: !interactive,
				Output:   cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Log to stderr instead of showing the status view")

	return cmd
}

func openWatchLog(home string) (*os.File, error) {
	path := filepath.Join(home, constants.ConfigDir, constants.WatchLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
