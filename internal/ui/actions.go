package ui

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/yildizm/statelist/internal/state"
	"github.com/yildizm/statelist/internal/table"
)

// shuffleState reorders rows inside every section, replaces one row with a
// new one and sometimes swaps two sections. v is not modified.
func shuffleState(v state.ViewState, rng *rand.Rand) state.ViewState {
	next := v.Clone()
	if len(next) == 0 {
		return next
	}

	for i := range next {
		elements := next[i].Elements
		rng.Shuffle(len(elements), func(a, b int) {
			elements[a], elements[b] = elements[b], elements[a]
		})
	}

	s := rng.IntN(len(next))
	if n := len(next[s].Elements); n > 0 {
		drop := rng.IntN(n)
		next[s].Elements = append(next[s].Elements[:drop], next[s].Elements[drop+1:]...)
	}
	at := rng.IntN(len(next[s].Elements) + 1)
	row := state.NewElement(&table.Row{
		ID:     uuid.NewString(),
		Title:  fmt.Sprintf("New item %d", rng.IntN(1000)),
		Status: "info",
	})
	next[s].Elements = append(next[s].Elements[:at], append([]state.Element{row}, next[s].Elements[at:]...)...)

	if len(next) > 1 && rng.IntN(3) == 0 {
		a, b := rng.IntN(len(next)), rng.IntN(len(next))
		next[a], next[b] = next[b], next[a]
	}

	return next
}

// toggleCollapsed flips the collapsed flag of the section with id
func toggleCollapsed(v state.ViewState, id string) state.ViewState {
	next := v.Clone()
	section, ok := findSection(next, id)
	if !ok {
		return next
	}
	next[section].Model.Collapsed = !next[section].Model.Collapsed
	return next
}

// removeRow drops the element with identity id
func removeRow(v state.ViewState, id string) state.ViewState {
	next := v.Clone()
	path, ok := findRow(next, id)
	if !ok {
		return next
	}
	elements := next[path.Section].Elements
	next[path.Section].Elements = append(elements[:path.Row], elements[path.Row+1:]...)
	return next
}

// moveRowToTop moves the element with identity id to the first row of its
// section
func moveRowToTop(v state.ViewState, id string) state.ViewState {
	next := v.Clone()
	path, ok := findRow(next, id)
	if !ok {
		return next
	}
	elements := next[path.Section].Elements
	e := elements[path.Row]
	copy(elements[1:path.Row+1], elements[:path.Row])
	elements[0] = e
	return next
}

// markDone sets the status of the data row with identity id to success
func markDone(v state.ViewState, id string) state.ViewState {
	next := v.Clone()
	path, ok := findRow(next, id)
	if !ok {
		return next
	}
	row, ok := next[path.Section].Elements[path.Row].Content.(*table.Row)
	if !ok {
		return next
	}
	done := *row
	done.Status = "success"
	next[path.Section].Elements[path.Row] = state.NewElement(&done)
	return next
}

// findSection returns the index of the first section with id
func findSection(v state.ViewState, id string) (int, bool) {
	for i, s := range v {
		if s.Model.ID == id {
			return i, true
		}
	}
	return 0, false
}

// findRow returns the path of the first element with identity id. Committed
// paths do not hold in the desired state, so edits look rows up by identity.
func findRow(v state.ViewState, id string) (state.IndexPath, bool) {
	for i, s := range v {
		for j, e := range s.Elements {
			if e.Identity() == id {
				return state.Path(i, j), true
			}
		}
	}
	return state.IndexPath{}, false
}
