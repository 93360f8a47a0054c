package web

import (
	"net/url"
	"sort"
	"strings"

	"github.com/plenohq/plenosite/internal/docs"
)

// The sidebar is rendered server-side: every link's href is the URL of the
// navigator state that clicking it would produce. The state round-trips
// through the URL (active id in the path, expanded set and mobile menu in
// the query), so each request rebuilds the navigator and precomputes the
// next state for every clickable element.

const (
	openParam = "open"
	menuParam = "menu"
)

// navFromRequest rebuilds the navigator encoded in a /docs/{section} URL.
func navFromRequest(active docs.SectionID, query url.Values) *docs.Navigator {
	var expanded []docs.SectionID
	if raw := query.Get(openParam); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			expanded = append(expanded, docs.SectionID(part))
		}
	} else if !query.Has(openParam) {
		// No explicit expansion state means a fresh visit: take the
		// defaults, then make the restore below a no-op for expansion.
		n := docs.NewNavigator()
		expanded = n.Expanded()
	}
	return docs.Restore(active, expanded, query.Get(menuParam) == "1")
}

// navURL encodes a navigator state as a /docs URL, with anchor for
// subsection targets. The open parameter is always present so an
// intentionally empty expansion set survives the round trip.
func navURL(n *docs.Navigator) string {
	ids := n.Expanded()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	sort.Strings(parts)

	var b strings.Builder
	b.WriteString("/docs/")
	b.WriteString(string(n.Active()))
	b.WriteString("?" + openParam + "=")
	b.WriteString(url.QueryEscape(strings.Join(parts, ",")))
	if n.MobileMenuOpen() {
		b.WriteString("&" + menuParam + "=1")
	}
	if _, anchor, ok := docs.ResolvePane(n.Active()); ok && anchor != "" {
		b.WriteString("#" + anchor)
	}
	return b.String()
}

// navChild is one subsection entry in the sidebar model.
type navChild struct {
	Title  string
	Href   string
	Active bool
}

// navEntry is one top-level entry in the sidebar model.
type navEntry struct {
	Title      string
	Href       string
	ToggleHref string
	Active     bool
	Expanded   bool
	Children   []navChild
}

// buildSidebar precomputes the sidebar model for the given state: each
// entry's href is the URL of the state its click produces.
func buildSidebar(n *docs.Navigator) []navEntry {
	entries := make([]navEntry, 0, len(docs.Sections()))
	for _, sec := range docs.Sections() {
		entry := navEntry{
			Title:    sec.Title,
			Href:     afterSelect(n, sec.ID),
			Active:   n.IsSectionActive(sec.ID),
			Expanded: n.IsExpanded(sec.ID),
		}
		if len(sec.Children) > 0 {
			entry.ToggleHref = afterToggle(n, sec.ID)
			for _, sub := range sec.Children {
				entry.Children = append(entry.Children, navChild{
					Title:  sub.Title,
					Href:   afterSelect(n, sub.ID),
					Active: n.IsSectionActive(sub.ID),
				})
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func afterSelect(n *docs.Navigator, id docs.SectionID) string {
	next := n.Clone()
	next.SelectSection(id)
	return navURL(next)
}

func afterToggle(n *docs.Navigator, id docs.SectionID) string {
	next := n.Clone()
	next.ToggleExpand(id)
	return navURL(next)
}

// menuURL returns the URL for the current state with the mobile menu opened
// or closed.
func menuURL(n *docs.Navigator, open bool) string {
	next := n.Clone()
	if open {
		next.OpenMobileMenu()
	} else {
		next.CloseMobileMenu()
	}
	return navURL(next)
}
