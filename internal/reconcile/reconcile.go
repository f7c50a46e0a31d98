// Package reconcile applies a staged changeset to a live rendering surface,
// one animated batch per stage, with an interruption check between batches.
package reconcile

import (
	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/metrics"
	"github.com/yildizm/statelist/internal/state"
)

// InterruptFunc is polled before every pending stage; returning true stops
// the run and leaves the surface at the last applied stage.
type InterruptFunc func(pending *diff.Stage) bool

// CommitFunc receives the view state the surface now shows. It is called
// inside every batch's updates block with done == false, and once more when
// the run settles with done == true.
type CommitFunc func(applied state.ViewState, done bool)

// Reconciler drives one surface
type Reconciler struct {
	surface Surface
	log     *logger.Logger
	stats   *metrics.ReloadStats
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// WithStats sets the metrics sink
func WithStats(stats *metrics.ReloadStats) Option {
	return func(r *Reconciler) {
		if stats != nil {
			r.stats = stats
		}
	}
}

// New creates a reconciler for surface
func New(surface Surface, opts ...Option) *Reconciler {
	r := &Reconciler{
		surface: surface,
		log:     logger.Nop(),
		stats:   metrics.NewReloadStats(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the metrics sink
func (r *Reconciler) Stats() *metrics.ReloadStats {
	return r.stats
}

// Reload diffs source against target and applies the result to the surface.
// It returns as soon as the first batch has been handed to the surface; the
// rest of the run continues from batch completions. onCommit is always
// called with done == true exactly once per Reload.
//
// The surface must not be mutated outside of Reload while a run is in
// flight; a desynchronized surface is a caller error.
func (r *Reconciler) Reload(source, target state.ViewState, animation RowAnimation, interrupt InterruptFunc, onCommit CommitFunc) diff.Changeset {
	if onCommit == nil {
		onCommit = func(state.ViewState, bool) {}
	}

	var changes diff.Changeset
	r.stats.DiffTime.Time(func() {
		changes = diff.Compute(source, target)
	})
	r.stats.Reloads.Inc()

	if changes.IsEmpty() {
		r.log.Debug("no changes to apply")
		onCommit(target, true)
		return changes
	}

	if !r.surface.Attached() {
		r.log.DebugWithFields("surface detached, reloading without animation", []logger.Field{
			logger.F("stages", len(changes)),
		})
		r.stats.FullReloads.Inc()
		onCommit(target, true)
		r.surface.ReloadData()
		return changes
	}

	run := &run{
		reconciler: r,
		changes:    changes,
		applied:    source,
		animation:  animation,
		interrupt:  interrupt,
		onCommit:   onCommit,
	}
	run.next()

	return changes
}

// run is the state of one Reload while batches are in flight
type run struct {
	reconciler *Reconciler
	changes    diff.Changeset
	index      int
	applied    state.ViewState
	animation  RowAnimation
	interrupt  InterruptFunc
	onCommit   CommitFunc
}

func (x *run) next() {
	r := x.reconciler

	if x.index >= len(x.changes) {
		x.onCommit(x.applied, true)
		return
	}

	stage := &x.changes[x.index]
	if x.interrupt != nil && x.interrupt(stage) {
		r.stats.Interrupts.Inc()
		r.log.InfoWithFields("reload interrupted", []logger.Field{
			logger.F("stage", x.index),
			logger.F("remaining", len(x.changes)-x.index),
		})
		x.onCommit(x.applied, true)
		return
	}

	batch := visibleBatch(x.index, stage, x.applied)
	r.stats.Batches.Inc()
	r.stats.Edits.Add(int64(stage.ChangeCount()))
	r.log.DebugWithFields("applying batch", []logger.Field{
		logger.F("stage", x.index),
		logger.F("edits", stage.ChangeCount()),
		logger.F("animation", x.animation),
	})

	r.surface.PerformBatchUpdates(func() {
		x.applied = stage.Data
		x.onCommit(stage.Data, false)
	}, batch, x.animation, func(bool) {
		x.index++
		x.next()
	})
}
