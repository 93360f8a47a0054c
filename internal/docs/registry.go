// Package docs implements the documentation navigator: a fixed section
// registry, the sidebar selection/expansion state machine, and the rendered
// content library behind /docs.
package docs

// SectionID identifies a top-level section or subsection. The universe is
// closed: ids outside the registry never enter the navigator.
type SectionID string

// Top-level sections.
const (
	SecOverview       SectionID = "overview"
	SecGettingStarted SectionID = "getting-started"
	SecAPIReference   SectionID = "api-reference"
	SecGuides         SectionID = "guides"
	SecSelfHosting    SectionID = "self-hosting"
)

// Subsections.
const (
	SubInstallation   SectionID = "installation"
	SubAuthentication SectionID = "authentication"
	SubQuickstart     SectionID = "quickstart"
	SubAnalyze        SectionID = "analyze"
	SubRedact         SectionID = "redact"
	SubOpenAIProxy    SectionID = "openai-proxy"
	SubPlaceholders   SectionID = "placeholders"
	SubOperators      SectionID = "operators"
	SubEntityTypes    SectionID = "entity-types"
)

// Subsection is a child entry in the sidebar; it shares its parent's
// content pane and scrolls to Anchor within it.
type Subsection struct {
	ID     SectionID
	Title  string
	Anchor string
}

// Section is a top-level sidebar entry with its own content pane.
type Section struct {
	ID          SectionID
	Title       string
	ContentFile string // markdown file within the docs content directory
	Children    []Subsection
}

// sections is the static registry, in sidebar order.
var sections = []Section{
	{
		ID:          SecOverview,
		Title:       "Overview",
		ContentFile: "overview.md",
	},
	{
		ID:          SecGettingStarted,
		Title:       "Getting Started",
		ContentFile: "getting-started.md",
		Children: []Subsection{
			{ID: SubInstallation, Title: "Installation", Anchor: "installation"},
			{ID: SubAuthentication, Title: "Authentication", Anchor: "authentication"},
			{ID: SubQuickstart, Title: "Quickstart", Anchor: "quickstart"},
		},
	},
	{
		ID:          SecAPIReference,
		Title:       "API Reference",
		ContentFile: "api-reference.md",
		Children: []Subsection{
			{ID: SubAnalyze, Title: "POST /api/analyze", Anchor: "analyze"},
			{ID: SubRedact, Title: "POST /api/redact", Anchor: "redact"},
			{ID: SubOpenAIProxy, Title: "OpenAI Proxy", Anchor: "openai-proxy"},
		},
	},
	{
		ID:          SecGuides,
		Title:       "Guides",
		ContentFile: "guides.md",
		Children: []Subsection{
			{ID: SubPlaceholders, Title: "Placeholders", Anchor: "placeholders"},
			{ID: SubOperators, Title: "Anonymization Operators", Anchor: "operators"},
			{ID: SubEntityTypes, Title: "Entity Types", Anchor: "entity-types"},
		},
	},
	{
		ID:          SecSelfHosting,
		Title:       "Self-Hosting",
		ContentFile: "self-hosting.md",
	},
}

// DefaultActive is the section selected on navigator creation.
const DefaultActive = SecOverview

// defaultExpanded are the sections pre-expanded on navigator creation.
var defaultExpanded = []SectionID{SecGettingStarted, SecAPIReference}

// parentOf maps every subsection to its parent section, built once from the
// registry.
var parentOf = func() map[SectionID]SectionID {
	m := make(map[SectionID]SectionID)
	for _, sec := range sections {
		for _, sub := range sec.Children {
			m[sub.ID] = sec.ID
		}
	}
	return m
}()

// Sections returns the registry in sidebar order.
func Sections() []Section { return sections }

// Known reports whether id belongs to the identifier universe.
func Known(id SectionID) bool {
	if _, ok := parentOf[id]; ok {
		return true
	}
	for _, sec := range sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

// IsTopLevel reports whether id is a top-level section.
func IsTopLevel(id SectionID) bool {
	for _, sec := range sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

// HasChildren reports whether a top-level section has subsections.
func HasChildren(id SectionID) bool {
	for _, sec := range sections {
		if sec.ID == id {
			return len(sec.Children) > 0
		}
	}
	return false
}

// ParentOf returns the parent section of a subsection. ok is false for
// top-level or unknown ids.
func ParentOf(id SectionID) (SectionID, bool) {
	p, ok := parentOf[id]
	return p, ok
}

// ResolvePane resolves an id to the top-level section owning its content
// pane and the anchor to scroll to within it ("" for top-level ids).
func ResolvePane(id SectionID) (Section, string, bool) {
	target := id
	anchor := ""
	if p, ok := parentOf[id]; ok {
		target = p
	}
	for _, sec := range sections {
		if sec.ID != target {
			continue
		}
		for _, sub := range sec.Children {
			if sub.ID == id {
				anchor = sub.Anchor
			}
		}
		return sec, anchor, true
	}
	return Section{}, "", false
}
