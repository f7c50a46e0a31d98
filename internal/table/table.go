// Package table adapts a reconciled list model to a rendering surface's data
// source and delegate protocol.
package table

import (
	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/metrics"
	"github.com/yildizm/statelist/internal/reconcile"
	"github.com/yildizm/statelist/internal/state"
)

// Surface is the rendering surface a Table drives
type Surface interface {
	reconcile.Surface
	state.CellSurface
	DeselectRow(path state.IndexPath, animated bool)
}

// Callbacks the host application may register. Each one is optional.
type (
	CellForRowFunc     func(surface Surface, path state.IndexPath, element state.Element) state.Cell
	CellSelectFunc     func(surface Surface, path state.IndexPath, element state.Element)
	CellEndDisplayFunc func(surface Surface, cell state.Cell, path state.IndexPath, element state.Element)
	WillDisplayFunc    func(surface Surface, cell state.Cell, path state.IndexPath)
	SectionViewFunc    func(surface Surface, section int) *state.View
	ScrollFunc         func(surface Surface)
	MenuFunc           func(surface Surface, path state.IndexPath, point state.Point, element state.Element) *state.MenuConfig
	InterruptPredicate func(pending diff.Stage) bool
)

// Table owns the committed view state shown by its surface and reconciles
// every newly desired state against it.
//
// All methods must be called from the surface's UI loop.
type Table struct {
	RowAnimation    reconcile.RowAnimation
	ShouldInterrupt bool
	InterruptWhen   InterruptPredicate

	OnCellForRow        CellForRowFunc
	OnCellSelect        CellSelectFunc
	OnCellEndDisplaying CellEndDisplayFunc
	OnWillDisplay       WillDisplayFunc
	OnHeaderView        SectionViewFunc
	OnFooterView        SectionViewFunc
	OnScroll            ScrollFunc
	OnMenu              MenuFunc

	surface    Surface
	reconciler *reconcile.Reconciler
	log        *logger.Logger
	stats      *metrics.ReloadStats

	committed state.ViewState
	desired   state.ViewState

	reloading  bool
	hasPending bool
	pending    state.ViewState
}

// Option configures a Table
type Option func(*Table)

// WithLogger sets the logger used by the table and its reconciler
func WithLogger(log *logger.Logger) Option {
	return func(t *Table) {
		if log != nil {
			t.log = log
		}
	}
}

// WithStats sets the metrics sink shared with the reconciler
func WithStats(stats *metrics.ReloadStats) Option {
	return func(t *Table) {
		if stats != nil {
			t.stats = stats
		}
	}
}

// WithRowAnimation sets the animation used for applied edits
func WithRowAnimation(animation reconcile.RowAnimation) Option {
	return func(t *Table) {
		t.RowAnimation = animation
	}
}

// New creates an empty table bound to surface
func New(surface Surface, opts ...Option) *Table {
	t := &Table{
		RowAnimation: reconcile.AnimationFade,
		surface:      surface,
		log:          logger.Nop(),
		stats:        metrics.NewReloadStats(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.reconciler = reconcile.New(surface,
		reconcile.WithLogger(t.log.WithComponent("reconcile")),
		reconcile.WithStats(t.stats),
	)
	return t
}

// Stats returns the reload metrics
func (t *Table) Stats() *metrics.ReloadStats {
	return t.stats
}

// DesiredState returns the state most recently requested
func (t *Table) DesiredState() state.ViewState {
	return t.desired
}

// CommittedState returns the state the surface currently shows
func (t *Table) CommittedState() state.ViewState {
	return t.committed
}

// Reloading reports whether batches are still being applied
func (t *Table) Reloading() bool {
	return t.reloading
}

// SetDesiredState requests a new list. It returns immediately; the surface
// is updated as batches complete. While a reload is in flight only the
// newest request is kept and it is applied once the current run settles.
func (t *Table) SetDesiredState(v state.ViewState) {
	t.desired = v

	if t.reloading {
		if t.hasPending {
			t.stats.Coalesced.Inc()
			t.log.Debug("dropping superseded desired state")
		}
		t.pending, t.hasPending = v, true
		return
	}

	t.reload(v)
}

func (t *Table) reload(target state.ViewState) {
	t.reloading = true
	t.reconciler.Reload(t.committed, target, t.RowAnimation, t.interrupt, t.commit)
}

func (t *Table) commit(applied state.ViewState, done bool) {
	t.committed = applied
	t.stats.CommittedRows.Set(float64(applied.ElementCount()))
	if !done {
		return
	}

	t.reloading = false
	if t.hasPending {
		next := t.pending
		t.pending, t.hasPending = nil, false
		t.reload(next)
	}
}

func (t *Table) interrupt(pending *diff.Stage) bool {
	if t.ShouldInterrupt {
		return true
	}
	if t.InterruptWhen != nil {
		return t.InterruptWhen(*pending)
	}
	return false
}

// SectionCount is the number of committed sections
func (t *Table) SectionCount() int {
	return len(t.committed)
}

// RowCount is the number of rows the surface shows in section: zero when the
// section is collapsed or out of range.
func (t *Table) RowCount(section int) int {
	s, ok := t.committed.Section(section)
	if !ok {
		return 0
	}
	return s.VisibleCount()
}

// Element returns the committed element at path
func (t *Table) Element(path state.IndexPath) (state.Element, bool) {
	return t.committed.Element(path)
}

// visibleElement returns the element at path only if the surface shows it
func (t *Table) visibleElement(path state.IndexPath) (state.Element, bool) {
	if path.Row < 0 || path.Row >= t.RowCount(path.Section) {
		return state.Element{}, false
	}
	e, ok := t.committed.Element(path)
	if !ok || e.Content == nil {
		return state.Element{}, false
	}
	return e, true
}

// CellForRow renders the cell at path through OnCellForRow when registered,
// otherwise through the element's own content
func (t *Table) CellForRow(path state.IndexPath) (state.Cell, bool) {
	e, ok := t.visibleElement(path)
	if !ok {
		return state.Cell{}, false
	}
	if t.OnCellForRow != nil {
		return t.OnCellForRow(t.surface, path, e), true
	}
	return e.Content.Render(t.surface, path), true
}

// HeaderView returns the header for section; none without OnHeaderView
func (t *Table) HeaderView(section int) (state.View, bool) {
	return t.sectionView(t.OnHeaderView, section)
}

// FooterView returns the footer for section; none without OnFooterView
func (t *Table) FooterView(section int) (state.View, bool) {
	return t.sectionView(t.OnFooterView, section)
}

func (t *Table) sectionView(fn SectionViewFunc, section int) (state.View, bool) {
	if fn == nil {
		return state.View{}, false
	}
	if _, ok := t.committed.Section(section); !ok {
		return state.View{}, false
	}
	view := fn(t.surface, section)
	if view == nil {
		return state.View{}, false
	}
	return *view, true
}

// DidSelectRow runs the element's selection reaction and the OnCellSelect
// callback, then clears the surface's selection
func (t *Table) DidSelectRow(path state.IndexPath) {
	e, ok := t.visibleElement(path)
	if !ok {
		return
	}
	e.Content.OnSelect()
	if t.OnCellSelect != nil {
		t.OnCellSelect(t.surface, path, e)
	}
	t.surface.DeselectRow(path, true)
}

// DidEndDisplaying reports a row leaving the screen
func (t *Table) DidEndDisplaying(cell state.Cell, path state.IndexPath) {
	if t.OnCellEndDisplaying == nil {
		return
	}
	e, ok := t.committed.Element(path)
	if !ok {
		return
	}
	t.OnCellEndDisplaying(t.surface, cell, path, e)
}

// WillDisplay reports a row about to be shown
func (t *Table) WillDisplay(cell state.Cell, path state.IndexPath) {
	if t.OnWillDisplay != nil {
		t.OnWillDisplay(t.surface, cell, path)
	}
}

// DidScroll reports a scroll position change
func (t *Table) DidScroll() {
	if t.OnScroll != nil {
		t.OnScroll(t.surface)
	}
}

// ContextMenu asks OnMenu for the menu of the row at path. Nil means no menu.
func (t *Table) ContextMenu(path state.IndexPath, point state.Point) *state.MenuConfig {
	if t.OnMenu == nil {
		return nil
	}
	e, ok := t.visibleElement(path)
	if !ok {
		return nil
	}
	return t.OnMenu(t.surface, path, point, e)
}

// ShowError replaces the desired state with a single error section
func (t *Table) ShowError(title, description string, onRetry func()) {
	t.SetDesiredState(state.ViewState{placeholderSection(NewError(title, description, onRetry))})
}

// ShowLoading appends a loading section to the desired state
func (t *Table) ShowLoading() {
	t.SetDesiredState(t.desired.Append(placeholderSection(NewLoading(""))))
}

func placeholderSection(content state.Content) state.State {
	return state.NewState(state.SectionState{ID: content.Identity()}, state.NewElement(content))
}
