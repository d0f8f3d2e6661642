package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Paintersrp/numdex/internal/pathutil"
)

// FS is a Store backed by an afero filesystem whose root is the vault root.
type FS struct {
	fs      afero.Fs
	ignored map[string]struct{}
}

type Option func(*FS)

// WithIgnoredFolders skips folders with the given names (case-insensitive)
// at any depth. Dot-folders are always skipped.
func WithIgnoredFolders(names ...string) Option {
	return func(v *FS) {
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				v.ignored[name] = struct{}{}
			}
		}
	}
}

func NewFS(fsys afero.Fs, opts ...Option) *FS {
	v := &FS{fs: fsys, ignored: make(map[string]struct{})}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewDisk returns a store rooted at the vault directory on disk.
func NewDisk(dir string, opts ...Option) *FS {
	base := afero.NewBasePathFs(afero.NewOsFs(), pathutil.NormalizePath(dir))
	return NewFS(base, opts...)
}

// Afero exposes the underlying filesystem.
func (v *FS) Afero() afero.Fs {
	return v.fs
}

func (v *FS) Root() (Entry, error) {
	children, err := v.readChildren("")
	if err != nil {
		return Entry{}, err
	}
	return Entry{Kind: KindFolder, Children: children}, nil
}

func (v *FS) readChildren(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(v.fs, v.name(dir))
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if v.skip(name, info.IsDir()) {
			continue
		}

		p := pathutil.Join(dir, name)
		if !info.IsDir() {
			entries = append(entries, Entry{Kind: KindFile, Path: p, Name: name})
			continue
		}

		children, err := v.readChildren(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Kind: KindFolder, Path: p, Name: name, Children: children})
	}

	return entries, nil
}

func (v *FS) skip(name string, isDir bool) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if !isDir {
		return false
	}
	_, ignored := v.ignored[strings.ToLower(name)]
	return ignored
}

func (v *FS) Kind(p string) (Kind, error) {
	info, err := v.fs.Stat(v.name(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KindNone, nil
		}
		return KindNone, fmt.Errorf("stat %q: %w", p, err)
	}
	if info.IsDir() {
		return KindFolder, nil
	}
	return KindFile, nil
}

func (v *FS) ReadFile(p string) ([]byte, error) {
	data, err := afero.ReadFile(v.fs, v.name(p))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", p, err)
	}
	return data, nil
}

func (v *FS) WriteFile(p string, data []byte) error {
	kind, err := v.Kind(p)
	if err != nil {
		return err
	}
	switch kind {
	case KindFolder:
		return fmt.Errorf("write %q: %w", p, ErrIsFolder)
	case KindNone:
		return fmt.Errorf("write %q: %w", p, fs.ErrNotExist)
	}
	return v.atomicWrite(p, data)
}

func (v *FS) CreateFile(p string, data []byte) error {
	kind, err := v.Kind(p)
	if err != nil {
		return err
	}
	if kind != KindNone {
		return fmt.Errorf("create %q: %w", p, fs.ErrExist)
	}
	return v.atomicWrite(p, data)
}

// atomicWrite writes into a temp file next to the target and renames it over
// the target, so readers see either the old or the new content.
func (v *FS) atomicWrite(p string, data []byte) error {
	name := v.name(p)
	dir := filepath.Dir(name)
	if err := v.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := afero.TempFile(v.fs, dir, ".numdex-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			v.fs.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := v.fs.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := v.fs.Rename(tempPath, name); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", name, err)
	}

	tempFile = nil
	return nil
}

func (v *FS) name(p string) string {
	if p == "" {
		return "."
	}
	return filepath.FromSlash(p)
}

var _ Store = (*FS)(nil)
