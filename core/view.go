package core

import "strings"

// CapabilitySet is the set of rendering capabilities a view declares at
// registration. It replaces runtime type inspection: a plugin states what
// its view is instead of the host guessing from the concrete type.
type CapabilitySet uint8

const (
	// CapabilityWidget marks a view renderable as a dashboard widget.
	CapabilityWidget CapabilitySet = 1 << iota
	// CapabilityPage marks a view renderable as a full console page.
	CapabilityPage
)

// Has reports whether every capability in c is present in the set.
func (s CapabilitySet) Has(c CapabilitySet) bool {
	return s&c == c
}

func (s CapabilitySet) String() string {
	var parts []string
	if s.Has(CapabilityWidget) {
		parts = append(parts, "widget")
	}
	if s.Has(CapabilityPage) {
		parts = append(parts, "page")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// View is a plugin-contributed console view. The id is the view's stable
// identity across the process lifetime; it must not be empty. Ids starting
// with '/' denote controller-backed views routed by path.
type View interface {
	ID() string
	Title() string
	Capabilities() CapabilitySet
}

// StaticView is a plain View implementation for plugins that have no
// behavior of their own beyond being selected and rendered.
type StaticView struct {
	id    string
	title string
	caps  CapabilitySet
}

// NewStaticView creates a view with the given identity and capability set.
func NewStaticView(id, title string, caps CapabilitySet) *StaticView {
	return &StaticView{id: id, title: title, caps: caps}
}

// NewPage creates a page-only view.
func NewPage(id, title string) *StaticView {
	return NewStaticView(id, title, CapabilityPage)
}

// NewWidget creates a widget-only view.
func NewWidget(id, title string) *StaticView {
	return NewStaticView(id, title, CapabilityWidget)
}

func (v *StaticView) ID() string                 { return v.id }
func (v *StaticView) Title() string              { return v.title }
func (v *StaticView) Capabilities() CapabilitySet { return v.caps }
