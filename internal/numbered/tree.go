package numbered

import (
	"strings"

	"github.com/Paintersrp/numdex/internal/pathutil"
)

// Node is one numbered path segment in the tree.
type Node struct {
	// Key is the raw segment, used for lookup and ordering.
	Key  string
	Path string
	// FolderNote is the path of the folder's note, or "" if it has none.
	FolderNote string
	Children   Tree
}

// Tree maps segment keys to nodes. The top level is rooted at the vault root.
type Tree map[string]*Node

// Build turns sorted folder paths into a tree. Every segment that passes
// IsNumberedSegment gets a node under the last numbered segment before it;
// other segments are skipped without stopping the walk. Folder notes are
// looked up once per node when kinds is non-nil.
func Build(folders []string, kinds KindLookup) (Tree, error) {
	tree := make(Tree)

	for _, folder := range folders {
		parts := pathutil.Segments(folder)
		current := tree

		for i, part := range parts {
			if !IsNumberedSegment(part) {
				continue
			}

			node, ok := current[part]
			if !ok {
				node = &Node{
					Key:      part,
					Path:     strings.Join(parts[:i+1], "/"),
					Children: make(Tree),
				}
				if kinds != nil {
					note, err := ResolveFolderNote(kinds, node.Path)
					if err != nil {
						return nil, err
					}
					node.FolderNote = note
				}
				current[part] = node
			}
			current = node.Children
		}
	}

	return tree, nil
}

// Count returns the number of nodes in the tree.
func (t Tree) Count() int {
	n := 0
	for _, node := range t {
		n += 1 + node.Children.Count()
	}
	return n
}
