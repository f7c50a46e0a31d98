package reconcile

import (
	"fmt"
	"strings"

	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/state"
)

// RowAnimation is the animation style used for applied edits
type RowAnimation int

const (
	AnimationFade RowAnimation = iota
	AnimationRight
	AnimationLeft
	AnimationTop
	AnimationBottom
	AnimationNone
	AnimationMiddle
	AnimationAutomatic
)

var animationNames = map[RowAnimation]string{
	AnimationFade:      "fade",
	AnimationRight:     "right",
	AnimationLeft:      "left",
	AnimationTop:       "top",
	AnimationBottom:    "bottom",
	AnimationNone:      "none",
	AnimationMiddle:    "middle",
	AnimationAutomatic: "automatic",
}

func (a RowAnimation) String() string {
	if name, ok := animationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("RowAnimation(%d)", int(a))
}

// ParseRowAnimation parses an animation name such as "fade" or "none"
func ParseRowAnimation(name string) (RowAnimation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range animationNames {
		if n == name {
			return a, nil
		}
	}
	return AnimationFade, fmt.Errorf("invalid row animation: %s (must be one of: %s)", name, strings.Join(AnimationNames(), ", "))
}

// AnimationNames lists the accepted animation names in declaration order
func AnimationNames() []string {
	names := make([]string, 0, len(animationNames))
	for a := AnimationFade; a <= AnimationAutomatic; a++ {
		names = append(names, animationNames[a])
	}
	return names
}

// Batch is what the surface animates in one update pass. Indices follow the
// same conventions as diff.Stage but only reference rows the surface shows.
type Batch struct {
	Stage int

	SectionDeleted  []int
	SectionInserted []int
	SectionUpdated  []int
	SectionMoved    []diff.SectionMove

	RowDeleted  []state.IndexPath
	RowInserted []state.IndexPath
	RowUpdated  []state.IndexPath
	RowMoved    []diff.ElementMove
}

// IsEmpty reports whether the batch has nothing to animate
func (b *Batch) IsEmpty() bool {
	return len(b.SectionDeleted)+len(b.SectionInserted)+len(b.SectionUpdated)+len(b.SectionMoved)+
		len(b.RowDeleted)+len(b.RowInserted)+len(b.RowUpdated)+len(b.RowMoved) == 0
}

// Validate checks that the batch turns a surface showing before row counts
// per section into one showing after row counts. Rows of updated sections
// are re-queried, so their counts are not checked.
func (b *Batch) Validate(before, after []int) error {
	want := len(before) - len(b.SectionDeleted) + len(b.SectionInserted)
	if len(after) != want {
		return fmt.Errorf("invalid number of sections: %d after update, expected %d", len(after), want)
	}

	// Before-index of every after section, -1 when inserted
	origin := make([]int, len(after))
	filled := make([]bool, len(after))
	removed := make(map[int]bool)
	for _, i := range b.SectionDeleted {
		removed[i] = true
	}
	for _, m := range b.SectionMoved {
		if m.To < 0 || m.To >= len(after) {
			return fmt.Errorf("section move to %d out of range", m.To)
		}
		removed[m.From] = true
		origin[m.To], filled[m.To] = m.From, true
	}
	for _, i := range b.SectionInserted {
		if i < 0 || i >= len(after) {
			return fmt.Errorf("section insert %d out of range", i)
		}
		origin[i], filled[i] = -1, true
	}
	next := 0
	for i := range before {
		if removed[i] {
			continue
		}
		for next < len(after) && filled[next] {
			next++
		}
		if next == len(after) {
			return fmt.Errorf("section bookkeeping overflow")
		}
		origin[next], filled[next] = i, true
	}

	delta := make(map[int]int)
	for _, p := range b.RowDeleted {
		delta[-p.Section-1]--
	}
	for _, m := range b.RowMoved {
		delta[-m.From.Section-1]--
		delta[m.To.Section]++
	}
	for _, p := range b.RowInserted {
		delta[p.Section]++
	}

	reloaded := make(map[int]bool)
	for _, i := range b.SectionUpdated {
		reloaded[i] = true
	}

	for k, from := range origin {
		if from < 0 || reloaded[k] {
			continue
		}
		expected := before[from] + delta[-from-1] + delta[k]
		if after[k] != expected {
			return fmt.Errorf("invalid number of rows in section %d: %d after update, expected %d", k, after[k], expected)
		}
	}

	return nil
}

// Surface is the rendering surface contract consumed by the reconciler.
//
// PerformBatchUpdates must call updates exactly once before it returns and
// read row counts only after that call. completion is invoked once the batch
// has finished animating, possibly later from the surface's own loop.
type Surface interface {
	PerformBatchUpdates(updates func(), batch Batch, animation RowAnimation, completion func(finished bool))
	ReloadData()
	Attached() bool
}

// visibleBatch converts a stage into the batch a surface can animate: element
// edits inside sections collapsed at that point are dropped, because the
// surface shows no rows there.
func visibleBatch(index int, stage *diff.Stage, before state.ViewState) Batch {
	hiddenBefore := func(section int) bool {
		s, ok := before.Section(section)
		return !ok || s.Model.Collapsed
	}
	hiddenAfter := func(section int) bool {
		s, ok := stage.Data.Section(section)
		return !ok || s.Model.Collapsed
	}

	batch := Batch{
		Stage:           index,
		SectionDeleted:  stage.SectionDeleted,
		SectionInserted: stage.SectionInserted,
		SectionUpdated:  stage.SectionUpdated,
		SectionMoved:    stage.SectionMoved,
	}

	for _, p := range stage.ElementDeleted {
		if !hiddenBefore(p.Section) {
			batch.RowDeleted = append(batch.RowDeleted, p)
		}
	}
	for _, p := range stage.ElementUpdated {
		if !hiddenBefore(p.Section) {
			batch.RowUpdated = append(batch.RowUpdated, p)
		}
	}
	for _, p := range stage.ElementInserted {
		if !hiddenAfter(p.Section) {
			batch.RowInserted = append(batch.RowInserted, p)
		}
	}
	for _, m := range stage.ElementMoved {
		from, to := !hiddenBefore(m.From.Section), !hiddenAfter(m.To.Section)
		switch {
		case from && to:
			batch.RowMoved = append(batch.RowMoved, m)
		case from:
			batch.RowDeleted = append(batch.RowDeleted, m.From)
		case to:
			batch.RowInserted = append(batch.RowInserted, m.To)
		}
	}

	return batch
}

// VisibleCounts returns the row count the surface shows for every section
func VisibleCounts(v state.ViewState) []int {
	counts := make([]int, len(v))
	for i, s := range v {
		counts[i] = s.VisibleCount()
	}
	return counts
}
