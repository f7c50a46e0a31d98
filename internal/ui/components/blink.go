package components

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultBlinkInterval is the length of one fade-out cycle
const DefaultBlinkInterval = 250 * time.Millisecond

// blinkFrames is how many opacity steps are rendered per cycle
const blinkFrames = 5

var lastLabelID int64

func nextLabelID() int {
	return int(atomic.AddInt64(&lastLabelID, 1))
}

// BlinkTickMsg advances a blinking label. It is only honored by the label
// and start generation that scheduled it.
type BlinkTickMsg struct {
	ID   int
	gen  int
	Time time.Time
}

// BlinkingLabel is a text label whose opacity fades from 1 to 0 over
// Interval and then starts over, for as long as it is blinking.
type BlinkingLabel struct {
	Text     string
	Interval time.Duration
	Style    lipgloss.Style

	id       int
	gen      int
	blinking bool
	started  time.Time
	opacity  float64
}

// NewBlinkingLabel creates a label that is not blinking yet
func NewBlinkingLabel(text string) *BlinkingLabel {
	return &BlinkingLabel{
		Text:     text,
		Interval: DefaultBlinkInterval,
		Style:    lipgloss.NewStyle().Bold(true),
		id:       nextLabelID(),
		opacity:  1,
	}
}

// ID identifies the label's tick messages
func (l *BlinkingLabel) ID() int {
	return l.id
}

// Blinking reports whether the label is animating
func (l *BlinkingLabel) Blinking() bool {
	return l.blinking
}

// Opacity is the current opacity in [0, 1]
func (l *BlinkingLabel) Opacity() float64 {
	return l.opacity
}

// StartBlinking starts the repeating fade. Ticks from an earlier start are
// ignored from now on.
func (l *BlinkingLabel) StartBlinking() tea.Cmd {
	l.gen++
	l.blinking = true
	l.started = time.Now()
	l.opacity = 1
	return l.tick()
}

// StopBlinking stops the animation and restores full opacity
func (l *BlinkingLabel) StopBlinking() {
	l.gen++
	l.blinking = false
	l.opacity = 1
}

// Toggle starts or stops blinking
func (l *BlinkingLabel) Toggle() tea.Cmd {
	if l.blinking {
		l.StopBlinking()
		return nil
	}
	return l.StartBlinking()
}

// Update handles the label's tick messages
func (l *BlinkingLabel) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(BlinkTickMsg)
	if !ok || tick.ID != l.id || tick.gen != l.gen || !l.blinking {
		return nil
	}
	l.opacity = opacityAt(tick.Time.Sub(l.started), l.interval())
	return l.tick()
}

// View renders the label at its current opacity
func (l *BlinkingLabel) View() string {
	switch {
	case l.opacity > 0.66:
		return l.Style.Render(l.Text)
	case l.opacity > 0.33:
		return l.Style.Faint(true).Render(l.Text)
	default:
		// keep the layout stable while invisible
		return strings.Repeat(" ", lipgloss.Width(l.Text))
	}
}

func (l *BlinkingLabel) interval() time.Duration {
	if l.Interval <= 0 {
		return DefaultBlinkInterval
	}
	return l.Interval
}

func (l *BlinkingLabel) tick() tea.Cmd {
	id, gen := l.id, l.gen
	return tea.Tick(l.interval()/blinkFrames, func(t time.Time) tea.Msg {
		return BlinkTickMsg{ID: id, gen: gen, Time: t}
	})
}

// opacityAt is the opacity after elapsed time of a fade that restarts every
// interval
func opacityAt(elapsed, interval time.Duration) float64 {
	if elapsed < 0 || interval <= 0 {
		return 1
	}
	phase := elapsed % interval
	return 1 - float64(phase)/float64(interval)
}
