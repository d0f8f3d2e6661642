package state

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Paintersrp/numdex/internal/config"
	"github.com/Paintersrp/numdex/internal/constants"
	"github.com/Paintersrp/numdex/internal/filelock"
	"github.com/Paintersrp/numdex/internal/logging"
	"github.com/Paintersrp/numdex/internal/pathutil"
	indexsvc "github.com/Paintersrp/numdex/internal/services/index"
	"github.com/Paintersrp/numdex/internal/vault"
)

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Vault         string
	Logger        *logrus.Logger
	LogOutput     io.Writer
	Store         *vault.FS
	Index         IndexService
	Watcher       *VaultWatcher
	RootStatus    *RootStatus
}

type RootStatus struct {
	mu   sync.RWMutex
	line string
}

func (r *RootStatus) Set(line string) {
	r.mu.Lock()
	r.line = line
	r.mu.Unlock()
}

func (r *RootStatus) Value() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.line
}

// IndexService is the index generator bound to the active workspace's vault.
type IndexService interface {
	Generate() error
	Refresh(trigger string)
	HandleEvent(ev vault.Event) bool
	Content() (string, error)
	Report() (indexsvc.Report, error)
	IndexPath() string
	Stats() indexsvc.Stats
	Close() error
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	return &State{Home: home, RootStatus: &RootStatus{}}, nil
}

// Load reads the config and wires the store and index service for the
// active workspace. Flag and environment overrides for the vault and log
// level apply to this process only and are never saved.
func (s *State) Load(workspaceOverride string) error {
	cfg, err := LoadConfig(s.Home)
	if err != nil {
		return err
	}

	if override := strings.TrimSpace(workspaceOverride); override != "" {
		if err := cfg.ActivateWorkspace(override); err != nil {
			return err
		}
	}

	active, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	ws := *active
	ws.IgnoredFolders = append([]string(nil), active.IgnoredFolders...)
	if v := strings.TrimSpace(viper.GetString("vault")); v != "" {
		ws.VaultDir = v
	}

	level := cfg.LogLevel
	if v := strings.TrimSpace(viper.GetString("log-level")); v != "" {
		level = v
	}
	if s.LogOutput == nil {
		s.LogOutput = os.Stderr
	}
	if s.RootStatus == nil {
		s.RootStatus = &RootStatus{}
	}

	s.Config = cfg
	s.Workspace = &ws
	s.WorkspaceName = cfg.CurrentWorkspace
	s.Logger = logging.New(level, s.LogOutput)
	s.Vault = ""
	s.Store = nil
	s.Index = nil

	if ws.VaultDir == "" {
		return nil
	}

	s.Vault = pathutil.NormalizePath(ws.VaultDir)
	s.Store = vault.NewDisk(s.Vault, vault.WithIgnoredFolders(ws.IgnoredFolders...))
	s.Index = indexsvc.NewService(s.Store, indexsvc.Options{
		IndexPath:       ws.IndexFile,
		TimestampFormat: ws.TimestampFormat,
		Logger:          s.Logger.WithField("workspace", s.WorkspaceName),
		Lock:            filelock.NewFileLock(s.LockPath(constants.GenerateLockFile)),
	})

	return nil
}

// RequireVault fails unless the active workspace points at an existing
// vault folder with a valid index configuration.
func (s *State) RequireVault() error {
	if s.Workspace == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if err := s.Workspace.Validate(); err != nil {
		var initErr *config.ConfigInitError
		if errors.As(err, &initErr) {
			return fmt.Errorf("%w: run `numdex init <vault>` first", err)
		}
		return err
	}

	info, err := os.Stat(s.Vault)
	if err != nil {
		return fmt.Errorf("vault %q: %w", s.Vault, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault %q is not a directory", s.Vault)
	}
	if s.Index == nil {
		return fmt.Errorf("index service unavailable for vault %q", s.Vault)
	}

	return nil
}

// LockPath returns the path of a named lock file inside the vault.
func (s *State) LockPath(name string) string {
	return filepath.Join(s.Vault, constants.LockDir, name)
}

// WatchVault returns the vault watcher, creating it on first use. Closing
// the watcher closes the index service too.
func (s *State) WatchVault() (*VaultWatcher, error) {
	if s.Watcher != nil {
		return s.Watcher, nil
	}
	if err := s.RequireVault(); err != nil {
		return nil, err
	}

	watcher, err := NewVaultWatcher(
		s.Vault,
		WithRenameWindow(s.Workspace.RenameWindow),
		WithIgnoredFolders(s.Workspace.IgnoredFolders...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}

	index := s.Index
	watcher.OnClose(func() {
		if index != nil {
			_ = index.Close()
		}
	})

	s.Watcher = watcher
	return watcher, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases resources associated with the state, including the vault
// watcher and index service.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
