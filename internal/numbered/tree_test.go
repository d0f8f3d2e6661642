package numbered

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Paintersrp/numdex/internal/vault"
)

// kinds is an in-memory KindLookup; anything not listed is KindNone.
type kinds map[string]vault.Kind

func (k kinds) Kind(path string) (vault.Kind, error) {
	return k[path], nil
}

type failingKinds struct{ err error }

func (f failingKinds) Kind(string) (vault.Kind, error) {
	return vault.KindNone, f.err
}

type countingKinds struct{ calls map[string]int }

func (c countingKinds) Kind(path string) (vault.Kind, error) {
	c.calls[path]++
	return vault.KindNone, nil
}

func TestResolveFolderNote(t *testing.T) {
	store := kinds{
		"02 - Projects/02 - Projects.md": vault.KindFile,
		"03 - Areas.md":                  vault.KindFile,
		"04 - Res/04 - Res.md":           vault.KindFolder,
	}

	tests := []struct {
		name   string
		folder string
		want   string
	}{
		{name: "note inside folder", folder: "02 - Projects", want: "02 - Projects/02 - Projects.md"},
		{name: "sibling note", folder: "03 - Areas"},
		{name: "folder at candidate path", folder: "04 - Res"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFolderNote(store, tt.folder)
			if err != nil {
				t.Fatalf("ResolveFolderNote returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ResolveFolderNote(%q) = %q, want %q", tt.folder, got, tt.want)
			}
		})
	}

	if _, err := ResolveFolderNote(failingKinds{err: errors.New("disk gone")}, "02 - Projects"); err == nil {
		t.Fatalf("expected lookup error")
	}
}

func TestFolderNoteCandidateAndIsFolderNote(t *testing.T) {
	if got := FolderNoteCandidate("a/01 - B"); got != "a/01 - B/01 - B.md" {
		t.Fatalf("FolderNoteCandidate = %q", got)
	}
	if !IsFolderNote("a/01 - B/01 - B.md") {
		t.Fatalf("expected folder note")
	}
	if IsFolderNote("a/01 - B/other.md") || IsFolderNote("01 - B.md") {
		t.Fatalf("expected other notes to be rejected")
	}
}

func TestBuildNestsNumberedSegments(t *testing.T) {
	store := kinds{"01 - Projects/01 - Projects.md": vault.KindFile}

	tree, err := Build([]string{
		"01 - Projects",
		"01 - Projects/01.01 - Alpha",
		"01 - Projects/2024/01 - January",
		"Areas/02 - Health",
	}, store)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(tree))
	}

	projects := tree["01 - Projects"]
	if projects == nil {
		t.Fatalf("missing 01 - Projects node")
	}
	if projects.Path != "01 - Projects" || projects.FolderNote != "01 - Projects/01 - Projects.md" {
		t.Fatalf("unexpected projects node: %+v", projects)
	}
	if len(projects.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(projects.Children))
	}
	if alpha := projects.Children["01.01 - Alpha"]; alpha == nil || alpha.Path != "01 - Projects/01.01 - Alpha" {
		t.Fatalf("unexpected alpha node: %+v", alpha)
	}

	// A bare year segment gets no node; its child hangs off the last numbered ancestor.
	january := projects.Children["01 - January"]
	if january == nil || january.Path != "01 - Projects/2024/01 - January" {
		t.Fatalf("unexpected january node: %+v", january)
	}
	if _, ok := projects.Children["2024"]; ok {
		t.Fatalf("expected year segment to be skipped")
	}

	health := tree["02 - Health"]
	if health == nil || health.Path != "Areas/02 - Health" || health.FolderNote != "" {
		t.Fatalf("unexpected health node: %+v", health)
	}

	if got := tree.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestBuildReusesExistingNodes(t *testing.T) {
	tree, err := Build([]string{
		"01 - A",
		"01 - A/01.01 - B",
		"01 - A/01.01 - B",
		"01 - A/01.02 - C",
	}, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(tree) != 1 || len(tree["01 - A"].Children) != 2 {
		t.Fatalf("unexpected tree shape: %+v", tree)
	}
	if got := tree.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	folders := []string{
		"01 - A",
		"01 - A/01.01 - B",
		"02 - C",
		"Areas/03 - D",
	}
	store := kinds{"02 - C/02 - C.md": vault.KindFile}

	first, err := Build(folders, store)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := Build(folders, store)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical trees")
	}
	if Render(first) != Render(second) {
		t.Fatalf("expected identical renders")
	}
}

func TestBuildResolvesNotesOncePerNode(t *testing.T) {
	calls := map[string]int{}

	if _, err := Build([]string{"01 - A", "01 - A/01.01 - B", "01 - A/01.02 - C"}, countingKinds{calls: calls}); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for _, note := range []string{"01 - A/01 - A.md", "01 - A/01.01 - B/01.01 - B.md"} {
		if calls[note] != 1 {
			t.Fatalf("expected one lookup of %q, got %d", note, calls[note])
		}
	}
}

func TestBuildPropagatesLookupErrors(t *testing.T) {
	_, err := Build([]string{"01 - A"}, failingKinds{err: errors.New("permission denied")})
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
