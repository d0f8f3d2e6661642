package index

import (
	"testing"
	"time"

	"github.com/Paintersrp/numdex/internal/numbered"
	"github.com/Paintersrp/numdex/internal/vault"
)

func TestParseDocument(t *testing.T) {
	doc := "- [[01 - A/01 - A.md|01 - A]]\n" +
		"  - 01.01 - B\n" +
		"    - [[01 - A/01.01 - B/01.01.01 - C/01.01.01 - C.md|01.01.01 - C]]\n" +
		"- 02 - D\n" +
		"\n---\n*Last updated: 1/2/2024, 11:04:05 AM*\n"

	report := ParseDocument([]byte(doc))

	if !report.Exists || report.Placeholder {
		t.Fatalf("unexpected flags: %+v", report)
	}
	if report.Entries != 4 || report.Linked != 2 || report.Depth != 3 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.Stamp != "1/2/2024, 11:04:05 AM" {
		t.Fatalf("unexpected stamp %q", report.Stamp)
	}
	want := time.Date(2024, time.January, 2, 11, 4, 5, 0, time.Local)
	if !report.Updated.Equal(want) {
		t.Fatalf("expected updated %s, got %s", want, report.Updated)
	}
}

func TestParseDocumentPlaceholder(t *testing.T) {
	report := ParseDocument([]byte(numbered.Placeholder))

	if !report.Placeholder || report.Entries != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Stamp != "" || !report.Updated.IsZero() {
		t.Fatalf("placeholder has no stamp: %+v", report)
	}
}

func TestServiceReport(t *testing.T) {
	mem := newMemVault(t, []string{"01 - A/01.01 - B"}, nil)
	svc, _ := newTestService(vault.NewFS(mem), Options{})

	report, err := svc.Report()
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if report.Exists {
		t.Fatalf("expected missing document, got %+v", report)
	}

	if err := svc.Generate(); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	report, err = svc.Report()
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if report.Entries != 2 || report.Depth != 2 || !report.Updated.Equal(fixedNow) {
		t.Fatalf("unexpected report: %+v", report)
	}
}
