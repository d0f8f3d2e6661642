package numbered

import (
	"fmt"

	"github.com/Paintersrp/numdex/internal/pathutil"
	"github.com/Paintersrp/numdex/internal/vault"
)

// KindLookup is the part of the store needed to resolve folder notes.
type KindLookup interface {
	Kind(path string) (vault.Kind, error)
}

// FolderNoteCandidate is where a folder's own note lives: inside the folder,
// named after it.
func FolderNoteCandidate(folderPath string) string {
	return folderPath + "/" + pathutil.Base(folderPath) + ".md"
}

// IsFolderNote reports whether notePath is the folder note of its parent.
func IsFolderNote(notePath string) bool {
	parent := pathutil.Parent(notePath)
	return parent != "" && FolderNoteCandidate(parent) == notePath
}

// ResolveFolderNote returns the folder note path if a file exists there, or
// "" if nothing (or a folder) does.
func ResolveFolderNote(kinds KindLookup, folderPath string) (string, error) {
	candidate := FolderNoteCandidate(folderPath)

	kind, err := kinds.Kind(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve folder note %q: %w", candidate, err)
	}
	if kind != vault.KindFile {
		return "", nil
	}

	return candidate, nil
}
