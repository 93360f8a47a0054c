package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadLibraryRendersMarkdown(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"overview.md":      "# Welcome\n\nAnonymize **PII** before it leaves your network.\n",
		"api-reference.md": "# API Reference\n\n## Analyze\n\n```json\n{\"text\": \"hi\"}\n```\n",
	})

	lib, err := LoadLibrary(dir, []string{"**/*.md"}, nil)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}

	pane, anchor, ok := lib.Pane(SecOverview)
	if !ok {
		t.Fatal("overview pane missing")
	}
	if anchor != "" {
		t.Errorf("top-level anchor = %q, want empty", anchor)
	}
	if !strings.Contains(string(pane.HTML), "<strong>PII</strong>") {
		t.Errorf("markdown not rendered: %s", pane.HTML)
	}

	// Heading ids are generated so subsection anchors have targets.
	pane, _, _ = lib.Pane(SecAPIReference)
	if !strings.Contains(string(pane.HTML), `id="analyze"`) {
		t.Errorf("expected auto heading id, got: %s", pane.HTML)
	}
}

func TestLoadLibrarySubsectionResolvesToParentPane(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"api-reference.md": "# API Reference\n\n## Redact\n",
	})

	lib, err := LoadLibrary(dir, []string{"**/*.md"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	pane, anchor, ok := lib.Pane(SubRedact)
	if !ok {
		t.Fatal("redact pane missing")
	}
	if pane.Section.ID != SecAPIReference {
		t.Errorf("pane section = %q, want api-reference", pane.Section.ID)
	}
	if anchor != "redact" {
		t.Errorf("anchor = %q", anchor)
	}
}

func TestLoadLibraryMissingFileGetsPlaceholder(t *testing.T) {
	lib, err := LoadLibrary(t.TempDir(), []string{"**/*.md"}, nil)
	if err != nil {
		t.Fatalf("LoadLibrary on empty dir: %v", err)
	}

	for _, sec := range Sections() {
		pane, _, ok := lib.Pane(sec.ID)
		if !ok {
			t.Errorf("pane %q missing entirely", sec.ID)
			continue
		}
		if pane.Path != "" {
			t.Errorf("placeholder pane %q should have no source path", sec.ID)
		}
		if !strings.Contains(string(pane.HTML), sec.Title) {
			t.Errorf("placeholder for %q should carry the title", sec.ID)
		}
	}
}

func TestLoadLibraryHonorsExcludes(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"overview.md":        "# Real\n",
		"drafts/overview.md": "# Draft\n",
	})

	lib, err := LoadLibrary(dir, []string{"**/*.md"}, []string{"drafts/**"})
	if err != nil {
		t.Fatal(err)
	}

	pane, _, _ := lib.Pane(SecOverview)
	if !strings.Contains(string(pane.HTML), "Real") {
		t.Errorf("expected non-draft content, got: %s", pane.HTML)
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"overview.md", []string{"**/*.md"}, true},
		{"a/b/c.md", []string{"**/*.md"}, true},
		{"notes.draft.md", []string{"*.draft.md"}, true},
		{"a/notes.draft.md", []string{"*.draft.md"}, true}, // basename match
		{"overview.md", []string{"drafts/**"}, false},
		{"drafts/x.md", []string{"drafts/**"}, true},
	}
	for _, tt := range tests {
		if got := matchesAny(tt.path, tt.patterns); got != tt.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}
