// Package diff computes staged changesets between two view states.
//
// Sections are matched by identity, then the elements of every matched pair
// of sections are matched by identity. Unmatched source items are deletes,
// unmatched target items are inserts, matched items whose content differs are
// updates, and matched items that fall outside the longest run of items
// already in relative order are moves. The result is split into stages that
// can each be applied to a live indexed view as a single batch:
//
//  1. element updates
//  2. section deletes and element deletes
//  3. section inserts and section moves
//  4. element inserts and element moves
//  5. section updates
//
// Empty stages are omitted, so diffing a view state against itself yields an
// empty changeset.
package diff

import (
	"sort"

	"github.com/yildizm/statelist/internal/state"
)

// Compute returns the changeset that turns source into target
func Compute(source, target state.ViewState) Changeset {
	sections := match(len(source), len(target),
		func(i int) string { return source[i].Model.ID },
		func(j int) string { return target[j].Model.ID })

	// Element matches for every matched section pair, keyed by target index
	elements := make([]matching, len(target))
	for j, i := range sections.targetToSource {
		if i < 0 {
			continue
		}
		src, tgt := source[i].Elements, target[j].Elements
		elements[j] = match(len(src), len(tgt),
			func(a int) string { return src[a].Identity() },
			func(b int) string { return tgt[b].Identity() })
	}

	b := &builder{source: source, target: target, sections: sections, elements: elements}
	b.updateElements()
	b.deleteItems()
	b.placeSections()
	b.placeElements()
	b.updateSections()

	return b.changeset
}

// matching pairs source and target positions that share an identity
type matching struct {
	sourceToTarget []int
	targetToSource []int
}

// match pairs items by identity. Repeated identities pair up in order of
// occurrence.
func match(sourceLen, targetLen int, sourceID, targetID func(int) string) matching {
	m := matching{
		sourceToTarget: make([]int, sourceLen),
		targetToSource: make([]int, targetLen),
	}

	pending := make(map[string][]int, sourceLen)
	for i := 0; i < sourceLen; i++ {
		m.sourceToTarget[i] = -1
		id := sourceID(i)
		pending[id] = append(pending[id], i)
	}

	for j := 0; j < targetLen; j++ {
		id := targetID(j)
		queue := pending[id]
		if len(queue) == 0 {
			m.targetToSource[j] = -1
			continue
		}
		i := queue[0]
		pending[id] = queue[1:]
		m.targetToSource[j] = i
		m.sourceToTarget[i] = j
	}

	return m
}

type builder struct {
	source, target state.ViewState
	sections       matching
	elements       []matching

	// afterDelete maps a surviving source section to its index once
	// deletions are applied, and each surviving element to its row.
	afterDelete     []int
	afterDeleteRows [][]int

	current   state.ViewState
	changeset Changeset
}

func (b *builder) emit(stage Stage) {
	if stage.IsEmpty() {
		return
	}
	b.changeset = append(b.changeset, stage)
}

func (b *builder) updateElements() {
	b.current = b.source.Clone()
	stage := Stage{}

	for i, j := range b.sections.sourceToTarget {
		if j < 0 {
			continue
		}
		m := b.elements[j]
		for si, tj := range m.sourceToTarget {
			if tj < 0 {
				continue
			}
			next := b.target[j].Elements[tj]
			if !b.source[i].Elements[si].Equal(next) {
				stage.ElementUpdated = append(stage.ElementUpdated, state.Path(i, si))
				b.current[i].Elements[si] = next
			}
		}
	}

	stage.Data = b.current
	b.emit(stage)
}

func (b *builder) deleteItems() {
	stage := Stage{}
	next := make(state.ViewState, 0, len(b.current))
	b.afterDelete = make([]int, len(b.source))
	b.afterDeleteRows = make([][]int, len(b.source))

	for i, j := range b.sections.sourceToTarget {
		if j < 0 {
			b.afterDelete[i] = -1
			stage.SectionDeleted = append(stage.SectionDeleted, i)
			continue
		}

		m := b.elements[j]
		rows := make([]int, len(m.sourceToTarget))
		kept := make([]state.Element, 0, len(m.sourceToTarget))
		for si, tj := range m.sourceToTarget {
			if tj < 0 {
				rows[si] = -1
				stage.ElementDeleted = append(stage.ElementDeleted, state.Path(i, si))
				continue
			}
			rows[si] = len(kept)
			kept = append(kept, b.current[i].Elements[si])
		}

		b.afterDelete[i] = len(next)
		b.afterDeleteRows[i] = rows
		next = append(next, state.State{Model: b.current[i].Model, Elements: kept})
	}

	sortDescending(stage.SectionDeleted)
	sortPathsDescending(stage.ElementDeleted)

	b.current = next
	stage.Data = b.current
	b.emit(stage)
}

func (b *builder) placeSections() {
	stage := Stage{}
	next := make(state.ViewState, len(b.target))

	var positions []int
	var targets []int
	for j, i := range b.sections.targetToSource {
		if i < 0 {
			stage.SectionInserted = append(stage.SectionInserted, j)
			next[j] = state.State{Model: b.target[j].Model, Elements: append([]state.Element(nil), b.target[j].Elements...)}
			continue
		}
		from := b.afterDelete[i]
		next[j] = b.current[from]
		positions = append(positions, from)
		targets = append(targets, j)
	}

	stay := longestIncreasing(positions)
	for k, from := range positions {
		if !stay[k] {
			stage.SectionMoved = append(stage.SectionMoved, SectionMove{From: from, To: targets[k]})
		}
	}

	b.current = next
	stage.Data = b.current
	b.emit(stage)
}

func (b *builder) placeElements() {
	stage := Stage{}
	next := b.current.Clone()

	for j, i := range b.sections.targetToSource {
		if i < 0 {
			continue
		}
		m := b.elements[j]
		rows := b.afterDeleteRows[i]

		var positions []int
		var targets []int
		for tj, si := range m.targetToSource {
			if si < 0 {
				stage.ElementInserted = append(stage.ElementInserted, state.Path(j, tj))
				continue
			}
			positions = append(positions, rows[si])
			targets = append(targets, tj)
		}

		stay := longestIncreasing(positions)
		for k, from := range positions {
			if !stay[k] {
				stage.ElementMoved = append(stage.ElementMoved, ElementMove{
					From: state.Path(j, from),
					To:   state.Path(j, targets[k]),
				})
			}
		}

		next[j].Elements = append([]state.Element(nil), b.target[j].Elements...)
	}

	b.current = next
	stage.Data = b.current
	b.emit(stage)
}

func (b *builder) updateSections() {
	stage := Stage{}

	for j, i := range b.sections.targetToSource {
		if i >= 0 && !b.source[i].Model.Equal(b.target[j].Model) {
			stage.SectionUpdated = append(stage.SectionUpdated, j)
		}
	}

	stage.Data = b.target.Clone()
	b.emit(stage)
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		k := sort.Search(len(tails), func(n int) bool { return seq[tails[n]] >= v })
		prev[i] = -1
		if k > 0 {
			prev[i] = tails[k-1]
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}

func sortDescending(xs []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(xs)))
}

func sortPathsDescending(ps []state.IndexPath) {
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].Section != ps[b].Section {
			return ps[a].Section > ps[b].Section
		}
		return ps[a].Row > ps[b].Row
	})
}
