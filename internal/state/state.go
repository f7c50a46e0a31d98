// Package state holds the list model reconciled by the diff engine: elements
// grouped into sections and the full ordered view state.
package state

import "fmt"

// IndexPath addresses a row inside a section
type IndexPath struct {
	Section int `json:"section"`
	Row     int `json:"row"`
}

// Path is a shorthand constructor for IndexPath
func Path(section, row int) IndexPath {
	return IndexPath{Section: section, Row: row}
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Row)
}

// Point is a position on the rendering surface, in cells
type Point struct {
	X int
	Y int
}

// Cell is the rendered form of a row
type Cell struct {
	Text       string
	Status     string // success|warning|error|info|muted
	Icon       string
	Selectable bool
}

// View is a rendered header or footer
type View struct {
	Text string
}

// MenuAction is one entry of a context menu
type MenuAction struct {
	Title   string
	Handler func()
}

// MenuConfig describes a context menu for a row
type MenuConfig struct {
	Title   string
	Actions []MenuAction
}

// CellSurface is what content sees of the rendering surface while rendering
type CellSurface interface {
	Width() int
	Frame() int
}

// Content is the application payload of a row. Identity must stay stable
// for as long as the item is logically the same; Equal reports whether two
// items with the same identity also look the same.
type Content interface {
	Identity() string
	Equal(other Content) bool
	Render(surface CellSurface, path IndexPath) Cell
	OnSelect()
}

// Element wraps one row's content
type Element struct {
	Content Content
}

// NewElement creates an element for content
func NewElement(content Content) Element {
	return Element{Content: content}
}

// Identity returns the identity of the wrapped content
func (e Element) Identity() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Identity()
}

// Equal reports whether both elements wrap equal content
func (e Element) Equal(other Element) bool {
	if e.Content == nil || other.Content == nil {
		return e.Content == nil && other.Content == nil
	}
	return e.Content.Equal(other.Content)
}

// SectionState is the section-level model. ID is the diffing identity.
type SectionState struct {
	ID        string `json:"id"`
	Header    string `json:"header,omitempty"`
	Footer    string `json:"footer,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
}

// Equal reports whether the section's own appearance is unchanged
func (s SectionState) Equal(other SectionState) bool {
	return s == other
}

// State pairs a section model with its ordered elements
type State struct {
	Model    SectionState
	Elements []Element
}

// NewState creates a section state
func NewState(model SectionState, elements ...Element) State {
	return State{Model: model, Elements: elements}
}

// Element returns the element at row, if any
func (s State) Element(row int) (Element, bool) {
	if row < 0 || row >= len(s.Elements) {
		return Element{}, false
	}
	return s.Elements[row], true
}

// VisibleCount is the number of rows a section shows
func (s State) VisibleCount() int {
	if s.Model.Collapsed {
		return 0
	}
	return len(s.Elements)
}

// ViewState is the whole list at one point in time
type ViewState []State

// Section returns the section at index, if any
func (v ViewState) Section(index int) (State, bool) {
	if index < 0 || index >= len(v) {
		return State{}, false
	}
	return v[index], true
}

// Element returns the element at path, if any
func (v ViewState) Element(path IndexPath) (Element, bool) {
	section, ok := v.Section(path.Section)
	if !ok {
		return Element{}, false
	}
	return section.Element(path.Row)
}

// ElementCount is the total number of elements across all sections
func (v ViewState) ElementCount() int {
	total := 0
	for _, s := range v {
		total += len(s.Elements)
	}
	return total
}

// Clone copies the section and element slices so the result can be edited
// without touching v. Content values are shared.
func (v ViewState) Clone() ViewState {
	if v == nil {
		return nil
	}
	out := make(ViewState, len(v))
	for i, s := range v {
		out[i] = State{Model: s.Model, Elements: append([]Element(nil), s.Elements...)}
	}
	return out
}

// Append returns a copy of v with sections appended
func (v ViewState) Append(sections ...State) ViewState {
	out := v.Clone()
	return append(out, sections...)
}

// Equal compares two view states by identity and content equality
func (v ViewState) Equal(other ViewState) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if !v[i].Model.Equal(other[i].Model) {
			return false
		}
		if len(v[i].Elements) != len(other[i].Elements) {
			return false
		}
		for j := range v[i].Elements {
			a, b := v[i].Elements[j], other[i].Elements[j]
			if a.Identity() != b.Identity() || !a.Equal(b) {
				return false
			}
		}
	}
	return true
}
