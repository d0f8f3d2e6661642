package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/numdex/internal/numbered"
	"github.com/Paintersrp/numdex/internal/pathutil"
	"github.com/Paintersrp/numdex/internal/vault"
)

const defaultRenameWindow = 250 * time.Millisecond

// FolderEventMsg carries one folder lifecycle event from the vault.
type FolderEventMsg struct {
	Event vault.Event
}

type VaultWatcherErrMsg struct {
	Err error
}

type WatcherOption func(*VaultWatcher)

// WithRenameWindow sets how long a folder rename waits for the matching
// create before it is reported as a deletion.
func WithRenameWindow(d time.Duration) WatcherOption {
	return func(w *VaultWatcher) {
		if d > 0 {
			w.renameWindow = d
		}
	}
}

func WithIgnoredFolders(names ...string) WatcherOption {
	return func(w *VaultWatcher) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				w.ignored[strings.ToLower(trimmed)] = struct{}{}
			}
		}
	}
}

// VaultWatcher turns fsnotify events under a vault into folder events. Only
// one Start command should be outstanding at a time.
type VaultWatcher struct {
	watcher      *fsnotify.Watcher
	vault        string
	done         chan struct{}
	once         sync.Once
	mu           sync.Mutex
	pending      []tea.Msg
	dirs         map[string]struct{}
	ignored      map[string]struct{}
	renameWindow time.Duration
	onClose      func()
}

func NewVaultWatcher(vault string, opts ...WatcherOption) (*VaultWatcher, error) {
	normalizedVault := pathutil.NormalizePath(vault)
	if normalizedVault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &VaultWatcher{
		watcher:      w,
		vault:        normalizedVault,
		done:         make(chan struct{}),
		dirs:         make(map[string]struct{}),
		ignored:      make(map[string]struct{}),
		renameWindow: defaultRenameWindow,
	}
	for _, opt := range opts {
		opt(watcher)
	}

	if _, err := watcher.addRecursive(normalizedVault); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next folder event and
// delivers it as a FolderEventMsg. Re-issue it after each message.
func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		if msg := w.dequeuePending(); msg != nil {
			return msg
		}

		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				msgs := w.translate(event)
				if len(msgs) == 0 {
					continue
				}
				for _, msg := range msgs[1:] {
					w.enqueuePending(msg)
				}
				return msgs[0]
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return VaultWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *VaultWatcher) translate(event fsnotify.Event) []tea.Msg {
	rel, err := w.relativePath(event.Name)
	if err != nil || rel == "" || w.skip(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return nil
		}
		if info.IsDir() {
			added, _ := w.addRecursive(event.Name)
			msgs := make([]tea.Msg, 0, len(added))
			for _, dir := range added {
				msgs = append(msgs, folderMsg(vault.FolderCreated, dir, ""))
			}
			return msgs
		}
		return w.noteMsg(rel)

	case event.Has(fsnotify.Remove):
		if removed := w.forget(rel); len(removed) > 0 {
			return deletedMsgs(removed)
		}
		return w.noteMsg(rel)

	case event.Has(fsnotify.Rename):
		if !w.isKnownDir(rel) {
			return w.noteMsg(rel)
		}
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// The watched folder reported its own move after the new path
			// was already picked up.
			return nil
		}
		return w.awaitRenameTarget(rel, w.forget(rel))
	}

	return nil
}

// awaitRenameTarget pairs a folder rename with the create event for its new
// name. Anything else that arrives first is handled normally and the folder
// is reported as deleted, together with every known folder below it.
func (w *VaultWatcher) awaitRenameTarget(oldRel string, removed []string) []tea.Msg {
	timer := time.NewTimer(w.renameWindow)
	defer timer.Stop()

	deleted := deletedMsgs(removed)

	select {
	case <-w.done:
		return nil
	case <-timer.C:
		return deleted
	case event, ok := <-w.watcher.Events:
		if !ok {
			return deleted
		}

		if event.Has(fsnotify.Create) {
			newRel, err := w.relativePath(event.Name)
			info, statErr := os.Stat(event.Name)
			if err == nil && newRel != "" && !w.skip(newRel) && statErr == nil && info.IsDir() {
				added, _ := w.addRecursive(event.Name)
				msgs := []tea.Msg{folderMsg(vault.FolderRenamed, newRel, oldRel)}
				for _, dir := range added {
					if dir != newRel {
						msgs = append(msgs, folderMsg(vault.FolderCreated, dir, ""))
					}
				}
				return msgs
			}
		}

		return append(deleted, w.translate(event)...)
	}
}

func (w *VaultWatcher) noteMsg(rel string) []tea.Msg {
	if !strings.EqualFold(filepath.Ext(rel), ".md") || !numbered.IsFolderNote(rel) {
		return nil
	}
	return []tea.Msg{folderMsg(vault.FolderNoteChanged, rel, "")}
}

func deletedMsgs(dirs []string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(dirs))
	for _, dir := range dirs {
		msgs = append(msgs, folderMsg(vault.FolderDeleted, dir, ""))
	}
	return msgs
}

func folderMsg(op vault.Op, path, oldPath string) tea.Msg {
	return FolderEventMsg{Event: vault.Event{Op: op, Path: path, OldPath: oldPath}}
}

func (w *VaultWatcher) enqueuePending(msg tea.Msg) {
	w.mu.Lock()
	w.pending = append(w.pending, msg)
	w.mu.Unlock()
}

func (w *VaultWatcher) dequeuePending() tea.Msg {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	msg := w.pending[0]
	w.pending = w.pending[1:]
	return msg
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

// addRecursive watches root and every folder below it, returning the
// vault-relative paths of folders that were not watched before, in walk
// order.
func (w *VaultWatcher) addRecursive(root string) ([]string, error) {
	normalized := pathutil.NormalizePath(root)

	var added []string
	err := filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}

		rel, err := w.relativePath(path)
		if err != nil {
			return err
		}
		if rel != "" && w.skip(rel) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return err
		}

		if rel != "" && w.remember(rel) {
			added = append(added, rel)
		}
		return nil
	})

	return added, err
}

func (w *VaultWatcher) remember(rel string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[rel]; ok {
		return false
	}
	w.dirs[rel] = struct{}{}
	return true
}

// forget drops rel and everything below it from the known folders and
// returns the dropped folders: rel first when it was known, then its
// descendants sorted.
func (w *VaultWatcher) forget(rel string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var removed []string
	if _, ok := w.dirs[rel]; ok {
		delete(w.dirs, rel)
		removed = append(removed, rel)
	}

	prefix := rel + "/"
	var below []string
	for dir := range w.dirs {
		if strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
			below = append(below, dir)
		}
	}
	sort.Strings(below)

	return append(removed, below...)
}

func (w *VaultWatcher) isKnownDir(rel string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.dirs[rel]
	return ok
}

// KnownFolders returns the watched folders, sorted.
func (w *VaultWatcher) KnownFolders() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func (w *VaultWatcher) skip(rel string) bool {
	if pathutil.IsHidden(rel) {
		return true
	}
	for _, segment := range pathutil.Segments(rel) {
		if _, ok := w.ignored[strings.ToLower(segment)]; ok {
			return true
		}
	}
	return false
}

func (w *VaultWatcher) relativePath(path string) (string, error) {
	normalized := pathutil.NormalizePath(path)
	rel, err := pathutil.VaultRelative(w.vault, normalized)
	if err != nil {
		return "", err
	}

	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", nil
	}

	return rel, nil
}
