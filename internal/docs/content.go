package docs

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Pane is a rendered content pane for one top-level section.
type Pane struct {
	Section Section
	HTML    template.HTML
	Path    string // source file, relative to the content dir ("" for placeholder panes)
}

// Library holds the rendered content panes for all registered sections.
type Library struct {
	panes map[SectionID]Pane
}

// newMarkdown builds the goldmark instance used for all panes.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// LoadLibrary reads markdown content from dir, filtered by include/exclude
// glob patterns, and renders a pane for every registered section. Sections
// whose content file is absent (or filtered out) get a placeholder pane so
// content resolution stays total.
func LoadLibrary(dir string, include, exclude []string) (*Library, error) {
	available := make(map[string]string) // relative path -> absolute path
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if len(include) > 0 && !matchesAny(rel, include) {
			return nil
		}
		if matchesAny(rel, exclude) {
			return nil
		}
		available[rel] = path
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("walking docs dir %s: %w", dir, err)
	}

	md := newMarkdown()
	lib := &Library{panes: make(map[SectionID]Pane)}

	for _, sec := range Sections() {
		pane := Pane{Section: sec}
		if src, ok := available[sec.ContentFile]; ok {
			raw, err := os.ReadFile(src)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", src, err)
			}
			var buf bytes.Buffer
			if err := md.Convert(raw, &buf); err != nil {
				return nil, fmt.Errorf("rendering %s: %w", src, err)
			}
			pane.HTML = template.HTML(buf.String())
			pane.Path = sec.ContentFile
		} else {
			pane.HTML = template.HTML(
				fmt.Sprintf("<h1>%s</h1><p>This page is being written.</p>", template.HTMLEscapeString(sec.Title)))
		}
		lib.panes[sec.ID] = pane
	}

	return lib, nil
}

// Pane resolves any section or subsection id to its content pane and the
// anchor to scroll to within it.
func (l *Library) Pane(id SectionID) (Pane, string, bool) {
	sec, anchor, ok := ResolvePane(id)
	if !ok {
		return Pane{}, "", false
	}
	pane, ok := l.panes[sec.ID]
	return pane, anchor, ok
}

// matchesAny reports whether relPath matches one of the glob patterns.
// It uses doublestar for ** support and also matches against the bare
// filename so patterns like "*.draft.md" work at any depth.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
