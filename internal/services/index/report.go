package index

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Paintersrp/numdex/internal/vault"
)

var lastUpdatedPattern = regexp.MustCompile(`\*Last updated: (.+)\*`)

// Report summarizes an index document already written to the vault.
type Report struct {
	Exists      bool
	Placeholder bool
	Entries     int
	Linked      int
	Depth       int
	Stamp       string
	// Updated is zero when Stamp could not be parsed.
	Updated time.Time
}

// Report reads the document at the index path and summarizes it.
func (s *Service) Report() (Report, error) {
	kind, err := s.store.Kind(s.indexPath)
	if err != nil {
		return Report{}, fmt.Errorf("stat index %q: %w", s.indexPath, err)
	}
	switch kind {
	case vault.KindNone:
		return Report{}, nil
	case vault.KindFolder:
		return Report{}, vault.ErrIsFolder
	}

	data, err := s.store.ReadFile(s.indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("read index %q: %w", s.indexPath, err)
	}

	return ParseDocument(data), nil
}

// ParseDocument counts the list entries of a rendered index and extracts
// its last-updated stamp.
func ParseDocument(data []byte) Report {
	report := Report{Exists: true}

	doc := goldmark.New().Parser().Parse(text.NewReader(data))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading:
			if firstLine(n, data) == "Numbered Folders Index" {
				report.Placeholder = true
			}
		case ast.KindListItem:
			report.Entries++
			if strings.HasPrefix(firstLine(n.FirstChild(), data), "[[") {
				report.Linked++
			}
			if depth := listDepth(n); depth > report.Depth {
				report.Depth = depth
			}
		}

		return ast.WalkContinue, nil
	})

	if m := lastUpdatedPattern.FindSubmatch(data); m != nil {
		report.Stamp = string(m[1])
		cleaned := strings.ReplaceAll(report.Stamp, ",", "")
		if t, err := dateparse.ParseLocal(cleaned); err == nil {
			report.Updated = t
		}
	}

	return report
}

func firstLine(n ast.Node, source []byte) string {
	if n == nil || n.Type() != ast.TypeBlock {
		return ""
	}
	lines := n.Lines()
	if lines.Len() == 0 {
		return ""
	}
	segment := lines.At(0)
	return string(bytes.TrimSpace(segment.Value(source)))
}

func listDepth(n ast.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindList {
			depth++
		}
	}
	return depth
}
