package pathutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVaultRelativeReturnsForwardSlashes(t *testing.T) {
	vaultParts := []string{"home", "user", "vault"}
	folderParts := append(append([]string{}, vaultParts...), "01 - Projects", "01.01 - Active")

	posixVault := filepath.Join(vaultParts...)
	posixFolder := filepath.Join(folderParts...)

	rel, err := VaultRelative(posixVault, posixFolder)
	if err != nil {
		t.Fatalf("VaultRelative returned error for POSIX paths: %v", err)
	}
	if rel != "01 - Projects/01.01 - Active" {
		t.Fatalf("expected relative path '01 - Projects/01.01 - Active', got %q", rel)
	}

	windowsVault := strings.ReplaceAll(posixVault, string(filepath.Separator), "\\")
	windowsFolder := strings.ReplaceAll(posixFolder, string(filepath.Separator), "\\")

	rel, err = VaultRelative(windowsVault, windowsFolder)
	if err != nil {
		t.Fatalf("VaultRelative returned error for Windows paths: %v", err)
	}
	if rel != "01 - Projects/01.01 - Active" {
		t.Fatalf("expected relative path '01 - Projects/01.01 - Active', got %q", rel)
	}
}

func TestSegmentsKeepsEmptyParts(t *testing.T) {
	got := Segments("a//b/")
	want := []string{"a", "", "b", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d (%q)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestJoinDropsRootPrefix(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"", "01 - A"}, "01 - A"},
		{[]string{"01 - A", "01.01 - B"}, "01 - A/01.01 - B"},
		{[]string{"01 - A"}, "01 - A"},
		{nil, ""},
	}

	for _, tc := range cases {
		if got := Join(tc.parts...); got != tc.want {
			t.Fatalf("Join(%q) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}

func TestBaseAndParent(t *testing.T) {
	cases := []struct {
		path   string
		base   string
		parent string
	}{
		{"01 - A/01.01 - B", "01.01 - B", "01 - A"},
		{"01 - A", "01 - A", ""},
		{"a/b/c.md", "c.md", "a/b"},
		{"", "", ""},
	}

	for _, tc := range cases {
		if got := Base(tc.path); got != tc.base {
			t.Fatalf("Base(%q) = %q, want %q", tc.path, got, tc.base)
		}
		if got := Parent(tc.path); got != tc.parent {
			t.Fatalf("Parent(%q) = %q, want %q", tc.path, got, tc.parent)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden(".obsidian/plugins") {
		t.Fatalf("expected .obsidian/plugins to be hidden")
	}
	if !IsHidden("01 - A/.git") {
		t.Fatalf("expected nested dot segment to be hidden")
	}
	if IsHidden("01 - A/01.01 - B") {
		t.Fatalf("did not expect numbered path to be hidden")
	}
}
