package numbered

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Placeholder is the whole document when the vault has no numbered folders.
const Placeholder = "# Numbered Folders Index\n\nNo numbered folders found in the vault.\n\nFolders should be named similar to: 01 - Collections and 01.01 - Topics etc…"

var numericPrefix = regexp.MustCompile(`^\d+(?:\.\d+)*`)

// Render writes the tree as a nested markdown list, two spaces per level.
// Nodes with a folder note become wikilinks aliased to the segment name.
func Render(tree Tree) string {
	var b strings.Builder
	renderLevel(&b, tree, 0)
	return b.String()
}

func renderLevel(b *strings.Builder, tree Tree, level int) {
	indent := strings.Repeat("  ", level)

	for _, node := range tree.Sorted() {
		b.WriteString(indent)
		if node.FolderNote != "" {
			b.WriteString("- [[" + node.FolderNote + "|" + node.Key + "]]\n")
		} else {
			b.WriteString("- " + node.Key + "\n")
		}

		if len(node.Children) > 0 {
			renderLevel(b, node.Children, level+1)
		}
	}
}

// Sorted returns the tree's nodes ordered by NumericKey. Equal keys fall
// back to the raw segment so output never depends on map order.
func (t Tree) Sorted() []*Node {
	nodes := make([]*Node, 0, len(t))
	for _, node := range t {
		nodes = append(nodes, node)
	}

	slices.SortFunc(nodes, func(a, b *Node) int {
		if c := CompareKeys(NumericKey(a.Key), NumericKey(b.Key)); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	return nodes
}

// NumericKey extracts the leading digits-and-dots run of name, so
// "2.10 - Foo" is [2 10]. Names without one sort as [0]. Parts too large
// for uint64 saturate.
func NumericKey(name string) []uint64 {
	prefix := numericPrefix.FindString(name)
	if prefix == "" {
		return []uint64{0}
	}

	parts := strings.Split(prefix, ".")
	key := make([]uint64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			v = math.MaxUint64
		}
		key[i] = v
	}

	return key
}

// CompareKeys orders numeric keys part by part; a missing part counts as 0.
func CompareKeys(a, b []uint64) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y uint64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// Footer is appended after the rendered tree.
func Footer(stamp string) string {
	return "\n---\n*Last updated: " + stamp + "*\n"
}

// Document renders the full index text for the given numbered folders.
func Document(folders []string, kinds KindLookup, stamp string) (string, error) {
	if len(folders) == 0 {
		return Placeholder, nil
	}

	tree, err := Build(folders, kinds)
	if err != nil {
		return "", err
	}

	return Render(tree) + Footer(stamp), nil
}
