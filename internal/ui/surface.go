package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/reconcile"
	"github.com/yildizm/statelist/internal/state"
)

// flashDuration is how long a deselected row stays flashed
const flashDuration = 150 * time.Millisecond

// frameInterval drives spinner frames of loading rows
var frameInterval = spinner.MiniDot.FPS

// DataSource is what the surface reads row counts from
type DataSource interface {
	SectionCount() int
	RowCount(section int) int
}

type batchDoneMsg struct{ seq int }

type flashDoneMsg struct{ seq int }

type frameMsg time.Time

// highlight marks what the batch being animated touched, in after indices
type highlight struct {
	animation reconcile.RowAnimation
	sections  map[int]bool
	rows      map[state.IndexPath]bool
}

// Surface is a reconcile.Surface for a Bubble Tea program. A batch is shown
// as highlighted rows for the animation duration; the batch completes when
// the matching tick message reaches Update.
type Surface struct {
	source   DataSource
	log      *logger.Logger
	duration time.Duration

	width    int
	height   int
	frame    int
	attached bool

	seq        int
	completion func(finished bool)
	current    *highlight

	flashSeq int
	flashed  *state.IndexPath

	reloads int
	desyncs int
	cmds    []tea.Cmd
}

// NewSurface creates a detached surface. duration is how long each batch
// is animated; zero applies batches synchronously.
func NewSurface(duration time.Duration, log *logger.Logger) *Surface {
	if log == nil {
		log = logger.Nop()
	}
	return &Surface{duration: duration, log: log}
}

// Bind sets the data source row counts are validated against
func (s *Surface) Bind(source DataSource) {
	s.source = source
}

// Init starts the frame ticker
func (s *Surface) Init() tea.Cmd {
	return frameTick()
}

// Update handles surface messages and reports whether msg was one of them
func (s *Surface) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.attached = true
		return false
	case batchDoneMsg:
		if msg.seq == s.seq {
			s.finishBatch(true)
		}
		return true
	case flashDoneMsg:
		if msg.seq == s.flashSeq {
			s.flashed = nil
		}
		return true
	case frameMsg:
		s.frame++
		s.queue(frameTick())
		return true
	}
	return false
}

// Cmds drains the commands queued since the last call
func (s *Surface) Cmds() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

func (s *Surface) queue(cmd tea.Cmd) {
	if cmd != nil {
		s.cmds = append(s.cmds, cmd)
	}
}

// PerformBatchUpdates implements reconcile.Surface
func (s *Surface) PerformBatchUpdates(updates func(), batch reconcile.Batch, animation reconcile.RowAnimation, completion func(finished bool)) {
	before := s.counts()
	updates()
	after := s.counts()

	if err := batch.Validate(before, after); err != nil {
		s.desyncs++
		s.log.WarnWithFields("surface out of sync with batch", []logger.Field{
			logger.F("stage", batch.Stage),
			logger.Error(err),
		})
	}

	s.current = newHighlight(batch, animation)
	s.seq++

	if animation == reconcile.AnimationNone || s.duration <= 0 {
		s.current = nil
		completion(true)
		return
	}

	s.completion = completion
	seq := s.seq
	s.queue(tea.Tick(s.duration, func(time.Time) tea.Msg {
		return batchDoneMsg{seq: seq}
	}))
}

func (s *Surface) finishBatch(finished bool) {
	s.current = nil
	completion := s.completion
	s.completion = nil
	if completion != nil {
		completion(finished)
	}
}

// ReloadData implements reconcile.Surface
func (s *Surface) ReloadData() {
	s.reloads++
	s.current = nil
}

// Attached implements reconcile.Surface. The surface attaches once the
// program has reported its window size.
func (s *Surface) Attached() bool {
	return s.attached
}

// DeselectRow clears the selection, briefly flashing the row when animated
func (s *Surface) DeselectRow(path state.IndexPath, animated bool) {
	if !animated {
		s.flashed = nil
		return
	}
	s.flashed = &path
	s.flashSeq++
	seq := s.flashSeq
	s.queue(tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	}))
}

// Width implements state.CellSurface
func (s *Surface) Width() int {
	return s.width
}

// Height is the last reported window height
func (s *Surface) Height() int {
	return s.height
}

// Frame implements state.CellSurface
func (s *Surface) Frame() int {
	return s.frame
}

// Animating reports whether a batch is waiting for its completion tick
func (s *Surface) Animating() bool {
	return s.completion != nil
}

// Reloads counts ReloadData calls
func (s *Surface) Reloads() int {
	return s.reloads
}

// Desyncs counts batches whose counts did not match the data source
func (s *Surface) Desyncs() int {
	return s.desyncs
}

// RowHighlighted reports whether the animated batch touched path
func (s *Surface) RowHighlighted(path state.IndexPath) bool {
	return s.current != nil && (s.current.rows[path] || s.current.sections[path.Section])
}

// SectionHighlighted reports whether the animated batch touched section
func (s *Surface) SectionHighlighted(section int) bool {
	return s.current != nil && s.current.sections[section]
}

// RowFlashed reports whether path was just deselected
func (s *Surface) RowFlashed(path state.IndexPath) bool {
	return s.flashed != nil && *s.flashed == path
}

// Marker is the glyph drawn next to highlighted rows
func (s *Surface) Marker() string {
	if s.current == nil {
		return ""
	}
	return animationMarker(s.current.animation)
}

func (s *Surface) counts() []int {
	if s.source == nil {
		return nil
	}
	counts := make([]int, s.source.SectionCount())
	for i := range counts {
		counts[i] = s.source.RowCount(i)
	}
	return counts
}

func newHighlight(batch reconcile.Batch, animation reconcile.RowAnimation) *highlight {
	h := &highlight{
		animation: animation,
		sections:  make(map[int]bool),
		rows:      make(map[state.IndexPath]bool),
	}
	for _, i := range batch.SectionInserted {
		h.sections[i] = true
	}
	for _, i := range batch.SectionUpdated {
		h.sections[i] = true
	}
	for _, m := range batch.SectionMoved {
		h.sections[m.To] = true
	}
	for _, p := range batch.RowInserted {
		h.rows[p] = true
	}
	for _, p := range batch.RowUpdated {
		h.rows[p] = true
	}
	for _, m := range batch.RowMoved {
		h.rows[m.To] = true
	}
	return h
}

func animationMarker(a reconcile.RowAnimation) string {
	switch a {
	case reconcile.AnimationFade:
		return "░"
	case reconcile.AnimationRight:
		return "→"
	case reconcile.AnimationLeft:
		return "←"
	case reconcile.AnimationTop:
		return "↑"
	case reconcile.AnimationBottom:
		return "↓"
	case reconcile.AnimationMiddle:
		return "↔"
	case reconcile.AnimationAutomatic:
		return "*"
	default:
		return ""
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
