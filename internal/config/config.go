package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/numdex/internal/constants"
	"github.com/Paintersrp/numdex/internal/pathutil"
)

const (
	defaultWorkspaceName = "default"
	defaultRenameWindow  = 250 * time.Millisecond
)

var defaultIgnoredFolders = []string{".obsidian", ".trash", ".git"}

type Workspace struct {
	VaultDir        string        `yaml:"vaultdir"         json:"vault_dir"`
	IndexFile       string        `yaml:"index_file"       json:"index_file"`
	TimestampFormat string        `yaml:"timestamp_format" json:"timestamp_format"`
	IgnoredFolders  []string      `yaml:"ignored_folders"  json:"ignored_folders"`
	RenameWindow    time.Duration `yaml:"rename_window"    json:"rename_window"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`
	LogLevel         string                `yaml:"log_level"         json:"log_level"`

	home   string
	active *Workspace
}

type legacyConfig struct {
	VaultDir        string        `yaml:"vaultdir"`
	IndexFile       string        `yaml:"index_file"`
	TimestampFormat string        `yaml:"timestamp_format"`
	IgnoredFolders  []string      `yaml:"ignored_folders"`
	RenameWindow    time.Duration `yaml:"rename_window"`
	LogLevel        string        `yaml:"log_level"`
}

func NewWorkspace(vaultDir string) *Workspace {
	ws := &Workspace{VaultDir: vaultDir}
	ws.ensureDefaults()
	return ws
}

func (ws *Workspace) ensureDefaults() {
	ws.VaultDir = strings.TrimSpace(ws.VaultDir)
	ws.IndexFile = strings.TrimSpace(ws.IndexFile)
	if ws.IndexFile == "" {
		ws.IndexFile = constants.IndexFileName
	}
	if strings.TrimSpace(ws.TimestampFormat) == "" {
		ws.TimestampFormat = constants.DefaultTimestampFormat
	}
	if ws.IgnoredFolders == nil {
		ws.IgnoredFolders = append([]string(nil), defaultIgnoredFolders...)
	}
	if ws.RenameWindow == 0 {
		ws.RenameWindow = defaultRenameWindow
	}
}

// Validate checks that the workspace can drive index generation.
func (ws *Workspace) Validate() error {
	if ws.VaultDir == "" {
		return &ConfigInitError{
			msg: fmt.Sprintf("required config variable %q is not set", "VaultDir"),
		}
	}

	if !strings.EqualFold(filepath.Ext(ws.IndexFile), ".md") {
		return fmt.Errorf("invalid index file %q: must be a .md note", ws.IndexFile)
	}
	if strings.HasPrefix(ws.IndexFile, "/") || filepath.IsAbs(ws.IndexFile) {
		return fmt.Errorf("invalid index file %q: must be relative to the vault", ws.IndexFile)
	}
	for _, segment := range pathutil.Segments(ws.IndexFile) {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("invalid index file %q: empty or relative segment", ws.IndexFile)
		}
	}

	if ws.RenameWindow < 0 {
		return fmt.Errorf("invalid rename window %s: must not be negative", ws.RenameWindow)
	}

	return nil
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) != 0 {
		raw := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}

		if _, ok := raw["workspaces"]; ok {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else {
			var legacy legacyConfig
			if err := yaml.Unmarshal(data, &legacy); err != nil {
				return nil, err
			}
			cfg = migrateLegacyConfig(&legacy)
		}
	}

	cfg.home = home
	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func migrateLegacyConfig(legacy *legacyConfig) *Config {
	ws := &Workspace{
		VaultDir:        legacy.VaultDir,
		IndexFile:       legacy.IndexFile,
		TimestampFormat: legacy.TimestampFormat,
		IgnoredFolders:  legacy.IgnoredFolders,
		RenameWindow:    legacy.RenameWindow,
	}
	ws.ensureDefaults()

	return &Config{
		Workspaces: map[string]*Workspace{
			defaultWorkspaceName: ws,
		},
		CurrentWorkspace: defaultWorkspaceName,
		LogLevel:         legacy.LogLevel,
		active:           ws,
	}
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = constants.DefaultLogLevel
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = NewWorkspace("")
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = NewWorkspace("")
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	cfg.syncViperWithActiveWorkspace()

	return nil
}

func (cfg *Config) syncViperWithActiveWorkspace() {
	if cfg.active == nil {
		return
	}

	syncWorkspaceWithViper(cfg.active)
	viper.Set("log_level", cfg.LogLevel)
}

func syncWorkspaceWithViper(ws *Workspace) {
	viper.Set("vaultdir", ws.VaultDir)
	viper.Set("index_file", ws.IndexFile)
	viper.Set("timestamp_format", ws.TimestampFormat)
	viper.Set("rename_window", ws.RenameWindow)
	if ws.IgnoredFolders == nil {
		viper.Set("ignored_folders", []string{})
	} else {
		viper.Set("ignored_folders", append([]string(nil), ws.IgnoredFolders...))
	}
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cfg *Config) HasWorkspace(name string) bool {
	_, ok := cfg.Workspaces[strings.TrimSpace(name)]
	return ok
}

func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

// ActivateWorkspace selects a workspace for this process without saving.
func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if cfg.HasWorkspace(trimmed) {
		return fmt.Errorf("workspace %q already exists", trimmed)
	}
	return cfg.SetWorkspace(trimmed, ws, makeCurrent)
}

// SetWorkspace adds or replaces a workspace and saves the config.
func (cfg *Config) SetWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	if ws == nil {
		ws = NewWorkspace("")
	}
	ws.ensureDefaults()
	if err := ws.Validate(); err != nil {
		return err
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || cfg.CurrentWorkspace == trimmed || makeCurrent {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveWorkspace(name string) error {
	if len(cfg.Workspaces) <= 1 {
		return fmt.Errorf("cannot remove the last workspace")
	}

	if _, exists := cfg.Workspaces[name]; !exists {
		return fmt.Errorf("workspace %q does not exist", name)
	}

	delete(cfg.Workspaces, name)

	if cfg.CurrentWorkspace == name {
		cfg.active = nil
		cfg.CurrentWorkspace = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	return GetConfigPath(cfg.home)
}

func (cfg *Config) Save() error {
	if _, err := cfg.ActiveWorkspace(); err != nil {
		return err
	}

	cfg.syncViperWithActiveWorkspace()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
