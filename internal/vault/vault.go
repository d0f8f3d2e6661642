// Package vault is the store collaborator of the numbered folders index: a
// read-only snapshot of the vault's folder tree plus the few file operations
// needed to maintain one generated document.
package vault

import (
	"errors"
	"fmt"
)

// ErrIsFolder is returned when a file operation targets a folder.
var ErrIsFolder = errors.New("path is a folder")

// Kind tags an entry in the vault.
type Kind int

const (
	KindNone Kind = iota
	KindFile
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "none"
	}
}

// Entry is an immutable snapshot of one vault item. Paths are vault-relative
// and "/"-separated; the root has an empty path and name.
type Entry struct {
	Kind     Kind
	Path     string
	Name     string
	Children []Entry
}

// Folders returns the entry's child folders in listing order.
func (e Entry) Folders() []Entry {
	folders := make([]Entry, 0, len(e.Children))
	for _, child := range e.Children {
		if child.Kind == KindFolder {
			folders = append(folders, child)
		}
	}
	return folders
}

// Store is the file store the index is generated from and written to.
type Store interface {
	// Root lists the whole vault, recursively, starting at the root folder.
	Root() (Entry, error)
	// Kind reports what exists at path. A missing path is KindNone, not an error.
	Kind(path string) (Kind, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the content of an existing file.
	WriteFile(path string, data []byte) error
	// CreateFile creates a new file and fails if anything exists at path.
	CreateFile(path string, data []byte) error
}

// Op is the kind of structural change reported by a watcher.
type Op int

const (
	FolderCreated Op = iota + 1
	FolderDeleted
	FolderRenamed
	// FolderNoteChanged reports a note named like its parent folder being
	// created, removed or renamed.
	FolderNoteChanged
)

func (op Op) String() string {
	switch op {
	case FolderCreated:
		return "folder created"
	case FolderDeleted:
		return "folder deleted"
	case FolderRenamed:
		return "folder renamed"
	case FolderNoteChanged:
		return "folder note changed"
	default:
		return "unknown"
	}
}

// Event is a change to the vault's folder structure. OldPath is only set
// for FolderRenamed.
type Event struct {
	Op      Op
	Path    string
	OldPath string
}

func (e Event) String() string {
	if e.Op == FolderRenamed {
		return fmt.Sprintf("%s: %s -> %s", e.Op, e.OldPath, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Path)
}
