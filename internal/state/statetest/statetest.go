// Package statetest provides small content types and builders for tests that
// exercise the list model.
package statetest

import (
	"fmt"
	"strings"

	"github.com/yildizm/statelist/internal/state"
)

// Item is a minimal content: identity plus a label that drives equality
type Item struct {
	ID       string
	Label    string
	Selected *int
}

// Identity implements state.Content
func (i *Item) Identity() string { return i.ID }

// Equal implements state.Content
func (i *Item) Equal(other state.Content) bool {
	o, ok := other.(*Item)
	return ok && o.ID == i.ID && o.Label == i.Label
}

// Render implements state.Content
func (i *Item) Render(_ state.CellSurface, _ state.IndexPath) state.Cell {
	return state.Cell{Text: i.Label, Selectable: true}
}

// OnSelect implements state.Content
func (i *Item) OnSelect() {
	if i.Selected != nil {
		*i.Selected++
	}
}

// E builds an element whose label equals its id
func E(id string) state.Element {
	return state.NewElement(&Item{ID: id, Label: id})
}

// EL builds an element with a distinct label
func EL(id, label string) state.Element {
	return state.NewElement(&Item{ID: id, Label: label})
}

// S builds a section with the given id and element ids
func S(id string, ids ...string) state.State {
	elements := make([]state.Element, 0, len(ids))
	for _, e := range ids {
		elements = append(elements, E(e))
	}
	return state.NewState(state.SectionState{ID: id}, elements...)
}

// V builds a view state
func V(sections ...state.State) state.ViewState {
	return state.ViewState(sections)
}

// Collapsed returns a copy of s marked as collapsed
func Collapsed(s state.State) state.State {
	s.Model.Collapsed = true
	return s
}

// Describe renders a view state compactly, e.g. "A:[1 2] B:[]"
func Describe(v state.ViewState) string {
	parts := make([]string, 0, len(v))
	for _, s := range v {
		ids := make([]string, 0, len(s.Elements))
		for _, e := range s.Elements {
			ids = append(ids, e.Identity())
		}
		flag := ""
		if s.Model.Collapsed {
			flag = "*"
		}
		parts = append(parts, fmt.Sprintf("%s%s:[%s]", s.Model.ID, flag, strings.Join(ids, " ")))
	}
	return strings.Join(parts, " ")
}

// Surface is a fixed-size CellSurface
type Surface struct {
	W int
	F int
}

// Width implements state.CellSurface
func (s Surface) Width() int { return s.W }

// Frame implements state.CellSurface
func (s Surface) Frame() int { return s.F }
