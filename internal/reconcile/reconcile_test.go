package reconcile

import (
	"strings"
	"testing"

	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/state"
	st "github.com/yildizm/statelist/internal/state/statetest"
)

type fakeSurface struct {
	t        *testing.T
	detached bool
	async    bool
	counts   func() []int
	batches  []Batch
	reloads  int
	pending  []func(bool)
}

func (f *fakeSurface) PerformBatchUpdates(updates func(), batch Batch, _ RowAnimation, completion func(bool)) {
	before := f.counts()
	updates()
	after := f.counts()
	if err := batch.Validate(before, after); err != nil {
		f.t.Errorf("Stage %d desynchronized the surface: %v", batch.Stage, err)
	}
	f.batches = append(f.batches, batch)
	if f.async {
		f.pending = append(f.pending, completion)
		return
	}
	completion(true)
}

func (f *fakeSurface) ReloadData() { f.reloads++ }

func (f *fakeSurface) Attached() bool { return !f.detached }

// finish completes one deferred batch
func (f *fakeSurface) finish() bool {
	if len(f.pending) == 0 {
		return false
	}
	completion := f.pending[0]
	f.pending = f.pending[1:]
	completion(true)
	return true
}

type harness struct {
	committed state.ViewState
	final     []state.ViewState
	surface   *fakeSurface
	rec       *Reconciler
}

func newHarness(t *testing.T, source state.ViewState) *harness {
	h := &harness{committed: source}
	h.surface = &fakeSurface{t: t, counts: func() []int { return VisibleCounts(h.committed) }}
	h.rec = New(h.surface)
	return h
}

func (h *harness) commit(applied state.ViewState, done bool) {
	h.committed = applied
	if done {
		h.final = append(h.final, applied)
	}
}

func (h *harness) reload(target state.ViewState, interrupt InterruptFunc) diff.Changeset {
	return h.rec.Reload(h.committed, target, AnimationFade, interrupt, h.commit)
}

func TestReloadAppliesEveryStage(t *testing.T) {
	source := st.V(st.S("A", "1", "2", "3"), st.S("B", "4"), st.S("C"))
	target := st.V(st.S("C", "5"), st.S("A", "3", "1"), st.Collapsed(st.S("B", "4", "6")))

	h := newHarness(t, source)
	changes := h.reload(target, nil)

	if len(h.surface.batches) != len(changes) {
		t.Errorf("Expected %d batches, got %d", len(changes), len(h.surface.batches))
	}
	if !h.committed.Equal(target) {
		t.Errorf("Expected committed %s, got %s", st.Describe(target), st.Describe(h.committed))
	}
	if len(h.final) != 1 {
		t.Fatalf("Expected one final commit, got %d", len(h.final))
	}

	snap := h.rec.Stats().Snapshot()
	if snap.Reloads != 1 || snap.Batches != int64(len(changes)) || snap.Edits != int64(changes.ChangeCount()) {
		t.Errorf("Unexpected stats %+v", snap)
	}
}

func TestReloadEmptyChangeset(t *testing.T) {
	source := st.V(st.S("A", "1"))
	h := newHarness(t, source)

	changes := h.reload(st.V(st.S("A", "1")), nil)

	if !changes.IsEmpty() {
		t.Errorf("Expected empty changeset, got %d stages", len(changes))
	}
	if len(h.surface.batches) != 0 {
		t.Errorf("Expected no batch, got %d", len(h.surface.batches))
	}
	if len(h.final) != 1 {
		t.Errorf("Expected one final commit, got %d", len(h.final))
	}
}

func TestInterruptBeforeFirstBatchKeepsSource(t *testing.T) {
	source := st.V(st.S("A", "1", "2"))
	h := newHarness(t, source)

	polled := 0
	h.reload(st.V(st.S("A", "2", "3")), func(*diff.Stage) bool {
		polled++
		return true
	})

	if polled != 1 {
		t.Errorf("Expected predicate polled once, got %d", polled)
	}
	if len(h.surface.batches) != 0 {
		t.Errorf("Expected no batches, got %d", len(h.surface.batches))
	}
	if len(h.final) != 1 || st.Describe(h.final[0]) != st.Describe(source) {
		t.Errorf("Expected final commit of source, got %v", h.final)
	}
	if h.rec.Stats().Interrupts.Get() != 1 {
		t.Errorf("Expected 1 interrupt, got %d", h.rec.Stats().Interrupts.Get())
	}
}

func TestInterruptMidRunCommitsAppliedStage(t *testing.T) {
	source := st.V(st.S("A", "1", "2"), st.S("B"))
	target := st.V(st.S("B", "9"), st.S("A", "2"))
	h := newHarness(t, source)

	changes := diff.Compute(source, target)
	if len(changes) < 2 {
		t.Fatalf("Expected a multi-stage changeset, got %d stages", len(changes))
	}

	calls := 0
	h.reload(target, func(*diff.Stage) bool {
		calls++
		return calls == 2
	})

	if len(h.surface.batches) != 1 {
		t.Errorf("Expected 1 batch before interruption, got %d", len(h.surface.batches))
	}
	if st.Describe(h.committed) != st.Describe(changes[0].Data) {
		t.Errorf("Expected committed %s, got %s", st.Describe(changes[0].Data), st.Describe(h.committed))
	}
	if len(h.final) != 1 || st.Describe(h.final[0]) != st.Describe(changes[0].Data) {
		t.Errorf("Expected final commit of first stage, got %d finals", len(h.final))
	}

	// the next reload resumes from what is actually shown
	h.reload(target, nil)
	if !h.committed.Equal(target) {
		t.Errorf("Expected resumed reload to reach target, got %s", st.Describe(h.committed))
	}
}

func TestDetachedSurfaceReloadsData(t *testing.T) {
	h := newHarness(t, st.V())
	h.surface.detached = true
	target := st.V(st.S("A", "1"))

	h.reload(target, nil)

	if h.surface.reloads != 1 {
		t.Errorf("Expected 1 full reload, got %d", h.surface.reloads)
	}
	if len(h.surface.batches) != 0 {
		t.Errorf("Expected no animated batches, got %d", len(h.surface.batches))
	}
	if !h.committed.Equal(target) {
		t.Errorf("Expected target committed, got %s", st.Describe(h.committed))
	}
	if h.rec.Stats().FullReloads.Get() != 1 {
		t.Errorf("Expected full reload counted")
	}
}

func TestCollapsedSectionEditsAreHidden(t *testing.T) {
	tests := []struct {
		name   string
		source state.ViewState
		target state.ViewState
	}{
		{"edits while collapsed", st.V(st.Collapsed(st.S("A", "1", "2"))), st.V(st.Collapsed(st.S("A", "2", "3", "1")))},
		{"expand with edits", st.V(st.Collapsed(st.S("A", "1", "2"))), st.V(st.S("A", "2", "1", "3"))},
		{"collapse with edits", st.V(st.S("A", "1", "2")), st.V(st.Collapsed(st.S("A", "2", "3")))},
		{"expand only", st.V(st.Collapsed(st.S("A", "1", "2"))), st.V(st.S("A", "1", "2"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.source)
			h.reload(tt.target, nil)

			if !h.committed.Equal(tt.target) {
				t.Errorf("Expected %s, got %s", st.Describe(tt.target), st.Describe(h.committed))
			}
		})
	}

	h := newHarness(t, st.V(st.Collapsed(st.S("A", "1", "2"))))
	h.reload(st.V(st.Collapsed(st.S("A", "2", "3", "1"))), nil)
	for _, b := range h.surface.batches {
		if len(b.RowInserted)+len(b.RowDeleted)+len(b.RowMoved)+len(b.RowUpdated) != 0 {
			t.Errorf("Expected no row edits inside a collapsed section, got %+v", b)
		}
	}
}

func TestAsyncCompletionContinuesRun(t *testing.T) {
	source := st.V(st.S("A", "1", "2"), st.S("B"))
	target := st.V(st.S("B", "9"), st.S("A", "2"))
	h := newHarness(t, source)
	h.surface.async = true

	changes := h.reload(target, nil)

	if len(h.surface.batches) != 1 {
		t.Fatalf("Expected Reload to return after the first batch, got %d", len(h.surface.batches))
	}
	if len(h.final) != 0 {
		t.Errorf("Expected no final commit while a batch is in flight")
	}

	for h.surface.finish() {
	}

	if len(h.surface.batches) != len(changes) {
		t.Errorf("Expected %d batches, got %d", len(changes), len(h.surface.batches))
	}
	if len(h.final) != 1 || !h.final[0].Equal(target) {
		t.Errorf("Expected one final commit of target")
	}
}

func TestBatchValidateDetectsDesync(t *testing.T) {
	batch := Batch{RowInserted: []state.IndexPath{state.Path(0, 0)}}

	if err := batch.Validate([]int{1}, []int{2}); err != nil {
		t.Errorf("Expected valid batch, got %v", err)
	}

	err := batch.Validate([]int{1}, []int{1})
	if err == nil || !strings.Contains(err.Error(), "invalid number of rows in section 0") {
		t.Errorf("Expected row count error, got %v", err)
	}

	sections := Batch{SectionInserted: []int{0}}
	if err := sections.Validate([]int{2}, []int{2}); err == nil {
		t.Error("Expected section count error")
	}
}

func TestParseRowAnimation(t *testing.T) {
	tests := []struct {
		input   string
		want    RowAnimation
		wantErr bool
	}{
		{"fade", AnimationFade, false},
		{" None ", AnimationNone, false},
		{"automatic", AnimationAutomatic, false},
		{"spin", AnimationFade, true},
	}

	for _, tt := range tests {
		got, err := ParseRowAnimation(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRowAnimation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRowAnimation(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if AnimationTop.String() != "top" {
		t.Errorf("Expected top, got %s", AnimationTop)
	}
}
