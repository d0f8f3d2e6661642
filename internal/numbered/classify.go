// Package numbered builds the index of "numbered" folders: folders whose
// names start with a digit and are not calendar years. It turns a snapshot of
// the vault into a nested tree and renders that tree as a markdown list.
package numbered

import (
	"regexp"
	"sort"

	"github.com/Paintersrp/numdex/internal/pathutil"
	"github.com/Paintersrp/numdex/internal/vault"
)

var (
	leadingDigit = regexp.MustCompile(`^\d`)
	yearPrefix   = regexp.MustCompile(`^(19|20)\d{2}`)
	bareYear     = regexp.MustCompile(`^\d{4}$`)
)

// IsNumberedFolder reports whether the folder at path belongs in the index.
// Only the terminal name is tested. Names opening with a year in 1900-2099
// are excluded whatever follows them.
func IsNumberedFolder(path string) bool {
	name := pathutil.Base(path)
	return leadingDigit.MatchString(name) && !yearPrefix.MatchString(name)
}

// IsNumberedSegment reports whether one path segment gets a node in the tree.
// Only a bare four digit segment counts as a year here, so "2024.01" passes.
func IsNumberedSegment(segment string) bool {
	return leadingDigit.MatchString(segment) && !bareYear.MatchString(segment)
}

// Collect walks every folder below root and returns the paths of numbered
// folders, sorted. Descent continues below folders that are not numbered.
func Collect(root vault.Entry) []string {
	var folders []string

	var walk func(vault.Entry)
	walk = func(folder vault.Entry) {
		if IsNumberedFolder(folder.Path) {
			folders = append(folders, folder.Path)
		}
		for _, child := range folder.Folders() {
			walk(child)
		}
	}

	for _, folder := range root.Folders() {
		walk(folder)
	}

	sort.Strings(folders)
	return folders
}
