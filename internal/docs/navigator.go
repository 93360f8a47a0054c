package docs

import "sort"

// Navigator holds the sidebar's selection and expansion state. Selection
// and expansion are independent axes: a subsection can be active while its
// parent group is collapsed. State lives for one page interaction and is
// never persisted.
type Navigator struct {
	active         SectionID
	expanded       map[SectionID]struct{}
	mobileMenuOpen bool
}

// NewNavigator creates a navigator with the default section active and the
// default groups pre-expanded.
func NewNavigator() *Navigator {
	n := &Navigator{
		active:   DefaultActive,
		expanded: make(map[SectionID]struct{}),
	}
	for _, id := range defaultExpanded {
		n.expanded[id] = struct{}{}
	}
	return n
}

// Restore builds a navigator from externally carried state (URL-encoded by
// the web layer). Unknown ids are dropped.
func Restore(active SectionID, expanded []SectionID, mobileMenuOpen bool) *Navigator {
	n := &Navigator{
		active:         DefaultActive,
		expanded:       make(map[SectionID]struct{}),
		mobileMenuOpen: mobileMenuOpen,
	}
	if Known(active) {
		n.active = active
	}
	for _, id := range expanded {
		if IsTopLevel(id) {
			n.expanded[id] = struct{}{}
		}
	}
	return n
}

// Clone returns an independent copy. The web layer clones before applying
// an operation to compute the target state of each sidebar link.
func (n *Navigator) Clone() *Navigator {
	c := &Navigator{
		active:         n.active,
		expanded:       make(map[SectionID]struct{}, len(n.expanded)),
		mobileMenuOpen: n.mobileMenuOpen,
	}
	for id := range n.expanded {
		c.expanded[id] = struct{}{}
	}
	return c
}

// SelectSection makes id the active section. Selecting a top-level section
// with children also toggles its expansion; selecting a subsection leaves
// the expansion set untouched. Any successful selection closes the mobile
// menu. Unknown ids are a programmer error and leave the state unchanged.
func (n *Navigator) SelectSection(id SectionID) {
	if !Known(id) {
		return
	}
	n.active = id
	if IsTopLevel(id) && HasChildren(id) {
		n.toggle(id)
	}
	n.mobileMenuOpen = false
}

// ToggleExpand flips the expansion of a top-level section independent of
// selection. This backs the sidebar's chevron control.
func (n *Navigator) ToggleExpand(id SectionID) {
	if !IsTopLevel(id) {
		return
	}
	n.toggle(id)
}

func (n *Navigator) toggle(id SectionID) {
	if _, ok := n.expanded[id]; ok {
		delete(n.expanded, id)
	} else {
		n.expanded[id] = struct{}{}
	}
}

// IsSectionActive reports whether id is the active selection.
func (n *Navigator) IsSectionActive(id SectionID) bool { return n.active == id }

// IsExpanded reports whether a top-level section is showing its children.
func (n *Navigator) IsExpanded(id SectionID) bool {
	_, ok := n.expanded[id]
	return ok
}

// Active returns the active section id.
func (n *Navigator) Active() SectionID { return n.active }

// Expanded returns the expanded set in stable (sorted) order.
func (n *Navigator) Expanded() []SectionID {
	out := make([]SectionID, 0, len(n.expanded))
	for id := range n.expanded {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OpenMobileMenu opens the mobile sidebar overlay.
func (n *Navigator) OpenMobileMenu() { n.mobileMenuOpen = true }

// CloseMobileMenu closes the overlay; used by the close control and the
// overlay-background tap.
func (n *Navigator) CloseMobileMenu() { n.mobileMenuOpen = false }

// MobileMenuOpen reports whether the overlay is showing.
func (n *Navigator) MobileMenuOpen() bool { return n.mobileMenuOpen }
