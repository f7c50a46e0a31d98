package table

import (
	"testing"

	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/reconcile"
	"github.com/yildizm/statelist/internal/state"
	st "github.com/yildizm/statelist/internal/state/statetest"
)

// fakeSurface reads its counts back from the table, the way a real surface
// queries its data source
type fakeSurface struct {
	t          *testing.T
	table      *Table
	async      bool
	batches    []reconcile.Batch
	pending    []func(bool)
	deselected []state.IndexPath
	frame      int
}

func (f *fakeSurface) counts() []int {
	counts := make([]int, f.table.SectionCount())
	for i := range counts {
		counts[i] = f.table.RowCount(i)
	}
	return counts
}

func (f *fakeSurface) PerformBatchUpdates(updates func(), batch reconcile.Batch, _ reconcile.RowAnimation, completion func(bool)) {
	before := f.counts()
	updates()
	if err := batch.Validate(before, f.counts()); err != nil {
		f.t.Errorf("Stage %d desynchronized the surface: %v", batch.Stage, err)
	}
	f.batches = append(f.batches, batch)
	if f.async {
		f.pending = append(f.pending, completion)
		return
	}
	completion(true)
}

func (f *fakeSurface) ReloadData()    {}
func (f *fakeSurface) Attached() bool { return true }
func (f *fakeSurface) Width() int     { return 80 }
func (f *fakeSurface) Frame() int     { return f.frame }

func (f *fakeSurface) DeselectRow(path state.IndexPath, _ bool) {
	f.deselected = append(f.deselected, path)
}

func (f *fakeSurface) drain() {
	for len(f.pending) > 0 {
		completion := f.pending[0]
		f.pending = f.pending[1:]
		completion(true)
	}
}

func newTable(t *testing.T) (*Table, *fakeSurface) {
	surface := &fakeSurface{t: t}
	tbl := New(surface)
	surface.table = tbl
	return tbl, surface
}

func TestShowErrorReplacesState(t *testing.T) {
	tbl, surface := newTable(t)

	retried := 0
	tbl.ShowError("Oops", "Network failed", func() { retried++ })

	if tbl.SectionCount() != 1 || tbl.RowCount(0) != 1 {
		t.Fatalf("Expected 1 section with 1 row, got %d sections", tbl.SectionCount())
	}
	e, _ := tbl.Element(state.Path(0, 0))
	errContent, ok := e.Content.(*Error)
	if !ok {
		t.Fatalf("Expected Error content, got %T", e.Content)
	}
	if errContent.Title != "Oops" || errContent.Description != "Network failed" {
		t.Errorf("Unexpected error content %+v", errContent)
	}

	inserted := 0
	for _, b := range surface.batches {
		inserted += len(b.SectionInserted)
	}
	if inserted != 1 {
		t.Errorf("Expected 1 section insert, got %d", inserted)
	}

	// error replaces whatever was there
	tbl.SetDesiredState(st.V(st.S("A", "1", "2"), st.S("B", "3")))
	tbl.ShowError("Again", "still failing", nil)
	if tbl.SectionCount() != 1 || tbl.RowCount(0) != 1 {
		t.Errorf("Expected error to replace state, got %s", st.Describe(tbl.CommittedState()))
	}

	tbl.ShowError("Oops", "Network failed", func() { retried++ })
	tbl.DidSelectRow(state.Path(0, 0))
	if retried != 1 {
		t.Errorf("Expected retry on selection, got %d", retried)
	}
}

func TestShowErrorDiffAgainstEmpty(t *testing.T) {
	placeholder := state.ViewState{placeholderSection(NewError("Oops", "Network failed", nil))}
	changes := diff.Compute(nil, placeholder)

	if got := changes.Count(diff.KindInsert, diff.LevelSection); got != 1 {
		t.Errorf("Expected 1 section insert, got %d", got)
	}
	if got := changes.Count(diff.KindInsert, diff.LevelElement); got != 1 {
		t.Errorf("Expected 1 element insert, got %d", got)
	}
	final, _ := changes.Final()
	if len(final) != 1 || len(final[0].Elements) != 1 {
		t.Errorf("Expected the inserted section to carry 1 element, got %s", st.Describe(final))
	}
}

func TestShowLoadingAppends(t *testing.T) {
	tbl, _ := newTable(t)
	tbl.SetDesiredState(st.V(st.S("A", "1")))

	tbl.ShowLoading()
	if tbl.SectionCount() != 2 {
		t.Fatalf("Expected 2 sections after first ShowLoading, got %d", tbl.SectionCount())
	}
	tbl.ShowLoading()
	if tbl.SectionCount() != 3 {
		t.Fatalf("Expected 3 sections after second ShowLoading, got %d", tbl.SectionCount())
	}

	first, _ := tbl.CommittedState().Section(1)
	second, _ := tbl.CommittedState().Section(2)
	if first.Model.ID == second.Model.ID {
		t.Error("Expected independent loading sections")
	}
	for i := 1; i <= 2; i++ {
		if tbl.RowCount(i) != 1 {
			t.Errorf("Expected 1 loading row in section %d, got %d", i, tbl.RowCount(i))
		}
	}
}

func TestSetSameStateTwice(t *testing.T) {
	tbl, surface := newTable(t)
	v := st.V(st.S("A", "1", "2"))

	tbl.SetDesiredState(v)
	first := len(surface.batches)
	tbl.SetDesiredState(v)

	if first == 0 {
		t.Fatal("Expected the first set to apply batches")
	}
	if len(surface.batches) != first {
		t.Errorf("Expected second set to be a no-op, got %d new batches", len(surface.batches)-first)
	}
}

func TestCollapsedRowCount(t *testing.T) {
	tbl, surface := newTable(t)
	tbl.SetDesiredState(st.V(st.Collapsed(st.S("A", "1", "2", "3"))))

	if tbl.RowCount(0) != 0 {
		t.Errorf("Expected collapsed section to report 0 rows, got %d", tbl.RowCount(0))
	}
	if _, ok := tbl.CellForRow(state.Path(0, 0)); ok {
		t.Error("Expected no cell inside a collapsed section")
	}

	before := len(surface.batches)
	tbl.SetDesiredState(st.V(st.S("A", "1", "2", "3")))

	if tbl.RowCount(0) != 3 {
		t.Errorf("Expected 3 rows after expanding, got %d", tbl.RowCount(0))
	}
	expand := surface.batches[before:]
	if len(expand) != 1 || len(expand[0].SectionUpdated) != 1 || len(expand[0].RowInserted) != 0 {
		t.Errorf("Expected a single section update, got %+v", expand)
	}
}

func TestCountsFollowCommittedState(t *testing.T) {
	tbl, surface := newTable(t)
	surface.async = true

	tbl.SetDesiredState(st.V(st.S("A", "1", "2")))
	surface.drain()

	tbl.SetDesiredState(st.V(st.S("A", "1", "2", "3", "4")))
	if !tbl.Reloading() {
		t.Fatal("Expected reload in flight")
	}
	if tbl.RowCount(0) != 4 {
		// the batch's updates block already ran
		t.Errorf("Expected counts of the applied stage, got %d", tbl.RowCount(0))
	}

	// overlapping sets park the newest desired state
	tbl.SetDesiredState(st.V(st.S("A", "9")))
	tbl.SetDesiredState(st.V(st.S("A", "1")))
	if tbl.Stats().Coalesced.Get() != 1 {
		t.Errorf("Expected 1 coalesced state, got %d", tbl.Stats().Coalesced.Get())
	}
	if got := st.Describe(tbl.DesiredState()); got != "A:[1]" {
		t.Errorf("Expected newest desired state, got %s", got)
	}

	surface.drain()
	if got := st.Describe(tbl.CommittedState()); got != "A:[1]" {
		t.Errorf("Expected parked state applied, got %s", got)
	}
	if tbl.Reloading() {
		t.Error("Expected reload settled")
	}
}

func TestShouldInterrupt(t *testing.T) {
	tbl, surface := newTable(t)
	tbl.SetDesiredState(st.V(st.S("A", "1")))

	tbl.ShouldInterrupt = true
	tbl.SetDesiredState(st.V(st.S("A", "1", "2")))

	if got := st.Describe(tbl.CommittedState()); got != "A:[1]" {
		t.Errorf("Expected committed state untouched, got %s", got)
	}
	if got := st.Describe(tbl.DesiredState()); got != "A:[1 2]" {
		t.Errorf("Expected desired state recorded, got %s", got)
	}
	if tbl.Reloading() {
		t.Error("Expected interrupted reload to settle")
	}

	tbl.ShouldInterrupt = false
	stages := 0
	tbl.InterruptWhen = func(pending diff.Stage) bool {
		stages++
		return len(pending.SectionUpdated) > 0
	}
	applied := len(surface.batches)
	tbl.SetDesiredState(st.V(st.Collapsed(st.S("A", "2", "3"))))
	if len(surface.batches)-applied != 2 {
		t.Errorf("Expected 2 batches before the section update, got %d", len(surface.batches)-applied)
	}
	if got := st.Describe(tbl.CommittedState()); got != "A:[2 3]" {
		t.Errorf("Expected element edits applied without the collapse, got %s", got)
	}
}

func TestSelectionAndCallbacks(t *testing.T) {
	tbl, surface := newTable(t)

	selected := 0
	var cellSelects []state.IndexPath
	tbl.OnCellSelect = func(_ Surface, path state.IndexPath, _ state.Element) {
		cellSelects = append(cellSelects, path)
	}
	tbl.SetDesiredState(state.ViewState{state.NewState(state.SectionState{ID: "A"},
		state.NewElement(&st.Item{ID: "1", Label: "one", Selected: &selected}))})

	tbl.DidSelectRow(state.Path(0, 0))
	if selected != 1 {
		t.Errorf("Expected content OnSelect, got %d", selected)
	}
	if len(cellSelects) != 1 {
		t.Errorf("Expected OnCellSelect once, got %d", len(cellSelects))
	}
	if len(surface.deselected) != 1 || surface.deselected[0] != state.Path(0, 0) {
		t.Errorf("Expected deselect of [0,0], got %v", surface.deselected)
	}

	// out of range selection is ignored
	tbl.DidSelectRow(state.Path(3, 7))
	if selected != 1 || len(surface.deselected) != 1 {
		t.Error("Expected out of range selection to be a no-op")
	}

	if _, ok := tbl.HeaderView(0); ok {
		t.Error("Expected no header without callback")
	}
	tbl.OnHeaderView = func(_ Surface, section int) *state.View {
		return &state.View{Text: "Header"}
	}
	if v, ok := tbl.HeaderView(0); !ok || v.Text != "Header" {
		t.Errorf("Expected header view, got %+v", v)
	}
	if _, ok := tbl.HeaderView(5); ok {
		t.Error("Expected no header for missing section")
	}
	if _, ok := tbl.FooterView(0); ok {
		t.Error("Expected no footer without callback")
	}

	if menu := tbl.ContextMenu(state.Path(0, 0), state.Point{}); menu != nil {
		t.Error("Expected no menu without callback")
	}
	tbl.OnMenu = func(_ Surface, path state.IndexPath, _ state.Point, e state.Element) *state.MenuConfig {
		return &state.MenuConfig{Title: e.Identity()}
	}
	if menu := tbl.ContextMenu(state.Path(0, 0), state.Point{X: 1}); menu == nil || menu.Title != "1" {
		t.Errorf("Expected menu for row 1, got %+v", menu)
	}
	if menu := tbl.ContextMenu(state.Path(0, 4), state.Point{}); menu != nil {
		t.Error("Expected no menu for missing row")
	}

	scrolled, shown, ended := 0, 0, 0
	tbl.OnScroll = func(Surface) { scrolled++ }
	tbl.OnWillDisplay = func(Surface, state.Cell, state.IndexPath) { shown++ }
	tbl.OnCellEndDisplaying = func(Surface, state.Cell, state.IndexPath, state.Element) { ended++ }
	tbl.DidScroll()
	tbl.WillDisplay(state.Cell{}, state.Path(0, 0))
	tbl.DidEndDisplaying(state.Cell{}, state.Path(0, 0))
	tbl.DidEndDisplaying(state.Cell{}, state.Path(2, 0))
	if scrolled != 1 || shown != 1 || ended != 1 {
		t.Errorf("Expected passthrough callbacks once each, got scroll=%d display=%d end=%d", scrolled, shown, ended)
	}
}

func TestCellForRow(t *testing.T) {
	tbl, surface := newTable(t)
	tbl.SetDesiredState(state.ViewState{state.NewState(state.SectionState{ID: "A"},
		state.NewElement(&Row{ID: "r1", Title: "First", Detail: "detail"}),
		state.NewElement(NewLoading("Fetching")),
	)})

	cell, ok := tbl.CellForRow(state.Path(0, 0))
	if !ok || cell.Text != "First  detail" {
		t.Errorf("Expected rendered row, got %+v", cell)
	}

	surface.frame = 1
	cell, _ = tbl.CellForRow(state.Path(0, 1))
	if cell.Text != loadingFrames[1]+" Fetching" {
		t.Errorf("Expected spinner frame 1, got %q", cell.Text)
	}

	tbl.OnCellForRow = func(_ Surface, path state.IndexPath, e state.Element) state.Cell {
		return state.Cell{Text: "custom " + e.Identity()}
	}
	cell, _ = tbl.CellForRow(state.Path(0, 0))
	if cell.Text != "custom r1" {
		t.Errorf("Expected callback cell, got %q", cell.Text)
	}

	if _, ok := tbl.CellForRow(state.Path(0, 9)); ok {
		t.Error("Expected no cell out of range")
	}
}

func TestRowEquality(t *testing.T) {
	a := &Row{ID: "1", Title: "x", Action: func() {}}
	b := &Row{ID: "1", Title: "x"}
	c := &Row{ID: "1", Title: "y"}

	if !a.Equal(b) {
		t.Error("Expected actions to be ignored by equality")
	}
	if a.Equal(c) {
		t.Error("Expected title change to break equality")
	}
	if a.Equal(NewLoading("x")) {
		t.Error("Expected different content types to differ")
	}
}
