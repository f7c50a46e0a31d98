package diff

import (
	"fmt"
	"sort"

	"github.com/yildizm/statelist/internal/state"
)

// Kind is the kind of a primitive edit
type Kind string

const (
	KindInsert Kind = "insert"
	KindDelete Kind = "delete"
	KindMove   Kind = "move"
	KindUpdate Kind = "update"
)

// Level tells whether an edit targets a section or an element
type Level string

const (
	LevelSection Level = "section"
	LevelElement Level = "element"
)

// SectionMove relocates a section. From is a before-batch index, To an
// after-batch index.
type SectionMove struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ElementMove relocates an element. From is a before-batch path, To an
// after-batch path.
type ElementMove struct {
	From state.IndexPath `json:"from"`
	To   state.IndexPath `json:"to"`
}

// Stage is one batch of edits plus the view state it produces.
//
// Index conventions follow batch updates on an indexed view: deletes, update
// targets and move sources are before-batch positions; inserts and move
// destinations are after-batch positions. Updates never share a stage with
// structural edits, so their positions are the same before and after.
//
// The elements of an inserted section travel with it, so they are not in
// ElementInserted. They still count as element inserts in Edits.
type Stage struct {
	Data state.ViewState

	SectionDeleted  []int
	SectionInserted []int
	SectionUpdated  []int
	SectionMoved    []SectionMove

	ElementDeleted  []state.IndexPath
	ElementInserted []state.IndexPath
	ElementUpdated  []state.IndexPath
	ElementMoved    []ElementMove
}

// SectionChangeCount is the number of section-level edits in the stage
func (s *Stage) SectionChangeCount() int {
	return len(s.SectionDeleted) + len(s.SectionInserted) + len(s.SectionUpdated) + len(s.SectionMoved)
}

// ElementChangeCount is the number of element-level edits in the stage,
// including the elements carried by inserted sections
func (s *Stage) ElementChangeCount() int {
	return len(s.ElementDeleted) + len(s.ElementInserted) + len(s.ElementUpdated) + len(s.ElementMoved) + s.carriedCount()
}

// carriedCount is the number of elements inside inserted sections
func (s *Stage) carriedCount() int {
	n := 0
	for _, i := range s.SectionInserted {
		if sec, ok := s.Data.Section(i); ok {
			n += len(sec.Elements)
		}
	}
	return n
}

// ChangeCount is the total number of edits in the stage
func (s *Stage) ChangeCount() int {
	return s.SectionChangeCount() + s.ElementChangeCount()
}

// IsEmpty reports whether the stage carries no edits
func (s *Stage) IsEmpty() bool {
	return s.ChangeCount() == 0
}

// Edits flattens the stage in batch order: deletes deepest first, then
// moves, then inserts, then updates
func (s *Stage) Edits() []Edit {
	edits := make([]Edit, 0, s.ChangeCount())

	for _, p := range s.ElementDeleted {
		edits = append(edits, Edit{Kind: KindDelete, Level: LevelElement, From: ptr(p)})
	}
	for _, i := range s.SectionDeleted {
		edits = append(edits, Edit{Kind: KindDelete, Level: LevelSection, From: ptr(state.Path(i, 0))})
	}
	for _, m := range s.SectionMoved {
		edits = append(edits, Edit{Kind: KindMove, Level: LevelSection, From: ptr(state.Path(m.From, 0)), To: ptr(state.Path(m.To, 0))})
	}
	for _, m := range s.ElementMoved {
		edits = append(edits, Edit{Kind: KindMove, Level: LevelElement, From: ptr(m.From), To: ptr(m.To)})
	}
	for _, i := range s.SectionInserted {
		edits = append(edits, Edit{Kind: KindInsert, Level: LevelSection, To: ptr(state.Path(i, 0))})
		if sec, ok := s.Data.Section(i); ok {
			for j := range sec.Elements {
				edits = append(edits, Edit{Kind: KindInsert, Level: LevelElement, To: ptr(state.Path(i, j))})
			}
		}
	}
	for _, p := range s.ElementInserted {
		edits = append(edits, Edit{Kind: KindInsert, Level: LevelElement, To: ptr(p)})
	}
	for _, i := range s.SectionUpdated {
		edits = append(edits, Edit{Kind: KindUpdate, Level: LevelSection, From: ptr(state.Path(i, 0)), To: ptr(state.Path(i, 0))})
	}
	for _, p := range s.ElementUpdated {
		edits = append(edits, Edit{Kind: KindUpdate, Level: LevelElement, From: ptr(p), To: ptr(p)})
	}

	return edits
}

// Changeset is the ordered list of stages transforming one view state into
// another. An empty changeset means nothing changed.
type Changeset []Stage

// IsEmpty reports whether there is nothing to apply
func (c Changeset) IsEmpty() bool {
	return len(c) == 0
}

// ChangeCount is the total number of edits across all stages
func (c Changeset) ChangeCount() int {
	total := 0
	for i := range c {
		total += c[i].ChangeCount()
	}
	return total
}

// Final returns the data of the last stage
func (c Changeset) Final() (state.ViewState, bool) {
	if len(c) == 0 {
		return nil, false
	}
	return c[len(c)-1].Data, true
}

// Edits flattens every stage, tagging each edit with its stage number
func (c Changeset) Edits() []Edit {
	var edits []Edit
	for i := range c {
		for _, e := range c[i].Edits() {
			e.Stage = i
			edits = append(edits, e)
		}
	}
	return edits
}

// Count returns the number of edits of kind at level
func (c Changeset) Count(kind Kind, level Level) int {
	n := 0
	for _, e := range c.Edits() {
		if e.Kind == kind && e.Level == level {
			n++
		}
	}
	return n
}

// Edit is one primitive change. Section-level edits only use the Section
// field of From and To.
type Edit struct {
	Stage int              `json:"stage"`
	Kind  Kind             `json:"kind"`
	Level Level            `json:"level"`
	From  *state.IndexPath `json:"from,omitempty"`
	To    *state.IndexPath `json:"to,omitempty"`
}

func (e Edit) String() string {
	loc := func(p *state.IndexPath) string {
		if e.Level == LevelSection {
			return fmt.Sprintf("%d", p.Section)
		}
		return p.String()
	}

	switch e.Kind {
	case KindInsert:
		return fmt.Sprintf("insert %s %s", e.Level, loc(e.To))
	case KindDelete:
		return fmt.Sprintf("delete %s %s", e.Level, loc(e.From))
	case KindMove:
		return fmt.Sprintf("move %s %s -> %s", e.Level, loc(e.From), loc(e.To))
	default:
		return fmt.Sprintf("update %s %s", e.Level, loc(e.From))
	}
}

func ptr(p state.IndexPath) *state.IndexPath {
	return &p
}

// Apply replays the stage's edits on before and returns the resulting view
// state. Inserted content is taken from Data. An error means the stage does
// not describe a valid batch for before.
func (s *Stage) Apply(before state.ViewState) (state.ViewState, error) {
	working := before.Clone()

	for _, p := range s.ElementUpdated {
		if _, ok := working.Element(p); !ok {
			return nil, fmt.Errorf("element update %s out of range", p)
		}
		next, ok := s.Data.Element(p)
		if !ok {
			return nil, fmt.Errorf("element update %s missing from stage data", p)
		}
		working[p.Section].Elements[p.Row] = next
	}

	sections, origin, err := s.placeSections(working)
	if err != nil {
		return nil, err
	}

	if err := s.placeElements(working, sections, origin); err != nil {
		return nil, err
	}

	for _, i := range s.SectionUpdated {
		next, ok := s.Data.Section(i)
		if !ok || i >= len(sections) {
			return nil, fmt.Errorf("section update %d out of range", i)
		}
		sections[i].Model = next.Model
	}

	return sections, nil
}

// placeSections resolves section deletes, inserts and moves. origin maps each
// after-index to its before-index, or -1 for inserted sections.
func (s *Stage) placeSections(before state.ViewState) (state.ViewState, []int, error) {
	removed := make(map[int]bool, len(s.SectionDeleted)+len(s.SectionMoved))
	for _, i := range s.SectionDeleted {
		if i < 0 || i >= len(before) {
			return nil, nil, fmt.Errorf("section delete %d out of range", i)
		}
		removed[i] = true
	}
	for _, m := range s.SectionMoved {
		if m.From < 0 || m.From >= len(before) {
			return nil, nil, fmt.Errorf("section move from %d out of range", m.From)
		}
		removed[m.From] = true
	}

	size := len(before) - len(s.SectionDeleted) + len(s.SectionInserted)
	out := make(state.ViewState, size)
	origin := make([]int, size)
	filled := make([]bool, size)

	place := func(at, from int, section state.State) error {
		if at < 0 || at >= size || filled[at] {
			return fmt.Errorf("section slot %d invalid", at)
		}
		out[at], origin[at], filled[at] = section, from, true
		return nil
	}

	for _, m := range s.SectionMoved {
		if err := place(m.To, m.From, before[m.From]); err != nil {
			return nil, nil, err
		}
	}
	for _, i := range s.SectionInserted {
		section, ok := s.Data.Section(i)
		if !ok {
			return nil, nil, fmt.Errorf("section insert %d missing from stage data", i)
		}
		if err := place(i, -1, section); err != nil {
			return nil, nil, err
		}
	}

	next := 0
	for i := range before {
		if removed[i] {
			continue
		}
		for next < size && filled[next] {
			next++
		}
		if next == size {
			return nil, nil, fmt.Errorf("section count mismatch")
		}
		out[next], origin[next], filled[next] = before[i], i, true
	}
	for i := range filled {
		if !filled[i] {
			return nil, nil, fmt.Errorf("section slot %d left empty", i)
		}
	}

	return out, origin, nil
}

// placeElements resolves element deletes, inserts and moves inside sections
// that survived from before.
func (s *Stage) placeElements(before, sections state.ViewState, origin []int) error {
	if len(s.ElementDeleted) == 0 && len(s.ElementInserted) == 0 && len(s.ElementMoved) == 0 {
		return nil
	}

	removed := make(map[state.IndexPath]bool)
	for _, p := range s.ElementDeleted {
		if _, ok := before.Element(p); !ok {
			return fmt.Errorf("element delete %s out of range", p)
		}
		removed[p] = true
	}
	incoming := make(map[int]map[int]state.Element)
	add := func(p state.IndexPath, e state.Element) error {
		if incoming[p.Section] == nil {
			incoming[p.Section] = make(map[int]state.Element)
		}
		if _, dup := incoming[p.Section][p.Row]; dup {
			return fmt.Errorf("element slot %s used twice", p)
		}
		incoming[p.Section][p.Row] = e
		return nil
	}
	for _, m := range s.ElementMoved {
		e, ok := before.Element(m.From)
		if !ok {
			return fmt.Errorf("element move from %s out of range", m.From)
		}
		removed[m.From] = true
		if err := add(m.To, e); err != nil {
			return err
		}
	}
	for _, p := range s.ElementInserted {
		e, ok := s.Data.Element(p)
		if !ok {
			return fmt.Errorf("element insert %s missing from stage data", p)
		}
		if err := add(p, e); err != nil {
			return err
		}
	}

	for k := range sections {
		from := origin[k]
		if from < 0 {
			if len(incoming[k]) > 0 {
				return fmt.Errorf("element edits inside inserted section %d", k)
			}
			continue
		}

		var survivors []state.Element
		for row, e := range before[from].Elements {
			if !removed[state.Path(from, row)] {
				survivors = append(survivors, e)
			}
		}

		size := len(survivors) + len(incoming[k])
		elements := make([]state.Element, size)
		rows := make([]int, 0, len(incoming[k]))
		for row := range incoming[k] {
			rows = append(rows, row)
		}
		sort.Ints(rows)
		filled := make([]bool, size)
		for _, row := range rows {
			if row < 0 || row >= size {
				return fmt.Errorf("element slot %s out of range", state.Path(k, row))
			}
			elements[row], filled[row] = incoming[k][row], true
		}
		next := 0
		for _, e := range survivors {
			for filled[next] {
				next++
			}
			elements[next], filled[next] = e, true
		}
		sections[k].Elements = elements
	}

	for section := range incoming {
		if section < 0 || section >= len(sections) {
			return fmt.Errorf("element edits in section %d out of range", section)
		}
	}

	return nil
}
