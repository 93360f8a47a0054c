package web

import (
	"net/url"
	"strings"
	"testing"

	"github.com/plenohq/plenosite/internal/docs"
)

// parseNavURL feeds a generated href back through the request decoder, the
// way a real click would.
func parseNavURL(t *testing.T, href string) *docs.Navigator {
	t.Helper()
	u, err := url.Parse(href)
	if err != nil {
		t.Fatalf("parsing %q: %v", href, err)
	}
	if !strings.HasPrefix(u.Path, "/docs/") {
		t.Fatalf("href %q is not a docs URL", href)
	}
	active := docs.SectionID(strings.TrimPrefix(u.Path, "/docs/"))
	return navFromRequest(active, u.Query())
}

func TestNavURLRoundTrip(t *testing.T) {
	n := docs.Restore(docs.SubAnalyze, []docs.SectionID{docs.SecGuides}, true)

	got := parseNavURL(t, navURL(n))
	if got.Active() != docs.SubAnalyze {
		t.Errorf("active = %q", got.Active())
	}
	if !got.IsExpanded(docs.SecGuides) || got.IsExpanded(docs.SecGettingStarted) {
		t.Errorf("expanded = %v", got.Expanded())
	}
	if !got.MobileMenuOpen() {
		t.Error("mobile menu state lost in round trip")
	}
}

func TestNavURLEmptyExpansionSurvives(t *testing.T) {
	n := docs.Restore(docs.SecOverview, nil, false)

	got := parseNavURL(t, navURL(n))
	if len(got.Expanded()) != 0 {
		t.Errorf("empty expansion set became %v", got.Expanded())
	}
}

func TestNavFromRequestFreshVisitGetsDefaults(t *testing.T) {
	n := navFromRequest(docs.SecGuides, url.Values{})

	if n.Active() != docs.SecGuides {
		t.Errorf("active = %q", n.Active())
	}
	if !n.IsExpanded(docs.SecGettingStarted) || !n.IsExpanded(docs.SecAPIReference) {
		t.Errorf("fresh visit should carry default expansion, got %v", n.Expanded())
	}
}

func TestSubsectionHrefKeepsExpansionAndAddsAnchor(t *testing.T) {
	n := docs.Restore(docs.SecOverview, []docs.SectionID{docs.SecAPIReference}, false)
	sidebar := buildSidebar(n)

	var apiEntry navEntry
	for _, e := range sidebar {
		if e.Title == "API Reference" {
			apiEntry = e
		}
	}
	if len(apiEntry.Children) == 0 {
		t.Fatal("expanded API Reference entry has no children")
	}

	href := apiEntry.Children[0].Href
	if !strings.HasSuffix(href, "#analyze") {
		t.Errorf("subsection href = %q, want #analyze fragment", href)
	}

	got := parseNavURL(t, href)
	if got.Active() != docs.SubAnalyze {
		t.Errorf("active after click = %q", got.Active())
	}
	if !got.IsExpanded(docs.SecAPIReference) {
		t.Error("subsection click must not collapse its group")
	}
}

func TestTopLevelHrefTogglesExpansion(t *testing.T) {
	n := docs.Restore(docs.SecOverview, []docs.SectionID{docs.SecGuides}, false)
	sidebar := buildSidebar(n)

	for _, e := range sidebar {
		if e.Title != "Guides" {
			continue
		}
		got := parseNavURL(t, e.Href)
		if got.IsExpanded(docs.SecGuides) {
			t.Error("selecting an expanded group should collapse it")
		}
		if got.Active() != docs.SecGuides {
			t.Errorf("active after click = %q", got.Active())
		}
		return
	}
	t.Fatal("Guides entry not found")
}

func TestToggleHrefFlipsOnlyExpansion(t *testing.T) {
	n := docs.Restore(docs.SubQuickstart, nil, false)
	sidebar := buildSidebar(n)

	for _, e := range sidebar {
		if e.Title != "Getting Started" {
			continue
		}
		got := parseNavURL(t, e.ToggleHref)
		if !got.IsExpanded(docs.SecGettingStarted) {
			t.Error("toggle href should expand the group")
		}
		if got.Active() != docs.SubQuickstart {
			t.Error("toggle href must not change the selection")
		}
		return
	}
	t.Fatal("Getting Started entry not found")
}

func TestSelectHrefClosesMobileMenu(t *testing.T) {
	n := docs.Restore(docs.SecOverview, nil, true)
	sidebar := buildSidebar(n)

	got := parseNavURL(t, sidebar[0].Href)
	if got.MobileMenuOpen() {
		t.Error("sidebar selection should close the mobile menu")
	}
}

func TestMenuURLTogglesOverlay(t *testing.T) {
	n := docs.Restore(docs.SecOverview, nil, false)

	opened := parseNavURL(t, menuURL(n, true))
	if !opened.MobileMenuOpen() {
		t.Error("menuURL(open) should open the menu")
	}
	closed := parseNavURL(t, menuURL(opened, false))
	if closed.MobileMenuOpen() {
		t.Error("menuURL(close) should close the menu")
	}
}
