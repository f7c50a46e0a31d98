package table

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/google/uuid"

	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/state"
)

// Row is a generic data row: a title, an optional detail line and a status
// used for styling. Action runs when the row is selected.
type Row struct {
	ID     string
	Title  string
	Detail string
	Status string
	Action func()
}

// Identity implements state.Content
func (r *Row) Identity() string { return r.ID }

// Equal implements state.Content. Actions are not compared.
func (r *Row) Equal(other state.Content) bool {
	o, ok := other.(*Row)
	if !ok {
		return false
	}
	return r.ID == o.ID && r.Title == o.Title && r.Detail == o.Detail && r.Status == o.Status
}

// Render implements state.Content
func (r *Row) Render(_ state.CellSurface, _ state.IndexPath) state.Cell {
	text := r.Title
	if r.Detail != "" {
		text = fmt.Sprintf("%s  %s", r.Title, r.Detail)
	}
	return state.Cell{
		Text:       text,
		Status:     r.Status,
		Icon:       emoji.GetEmoji("row"),
		Selectable: true,
	}
}

// OnSelect implements state.Content
func (r *Row) OnSelect() {
	if r.Action != nil {
		r.Action()
	}
}

// Error is the placeholder shown by ShowError. Selecting it retries.
type Error struct {
	id          string
	Title       string
	Description string
	OnRetry     func()
}

// NewError creates an error placeholder with a fresh identity
func NewError(title, description string, onRetry func()) *Error {
	return &Error{id: uuid.NewString(), Title: title, Description: description, OnRetry: onRetry}
}

// Identity implements state.Content
func (e *Error) Identity() string { return e.id }

// Equal implements state.Content
func (e *Error) Equal(other state.Content) bool {
	o, ok := other.(*Error)
	return ok && e.id == o.id && e.Title == o.Title && e.Description == o.Description
}

// Render implements state.Content
func (e *Error) Render(_ state.CellSurface, _ state.IndexPath) state.Cell {
	text := fmt.Sprintf("%s: %s", e.Title, e.Description)
	if e.OnRetry != nil {
		text += fmt.Sprintf("  %s retry", emoji.GetEmoji("retry"))
	}
	return state.Cell{
		Text:       text,
		Status:     "error",
		Icon:       emoji.GetEmoji("error"),
		Selectable: e.OnRetry != nil,
	}
}

// OnSelect implements state.Content
func (e *Error) OnSelect() {
	if e.OnRetry != nil {
		e.OnRetry()
	}
}

// loadingFrames are the spinner frames cycled by Loading rows
var loadingFrames = spinner.MiniDot.Frames

// Loading is the placeholder appended by ShowLoading
type Loading struct {
	id    string
	Title string
}

// NewLoading creates a loading placeholder with a fresh identity
func NewLoading(title string) *Loading {
	return &Loading{id: uuid.NewString(), Title: title}
}

// Identity implements state.Content
func (l *Loading) Identity() string { return l.id }

// Equal implements state.Content
func (l *Loading) Equal(other state.Content) bool {
	o, ok := other.(*Loading)
	return ok && l.id == o.id && l.Title == o.Title
}

// Render implements state.Content. The spinner frame follows the surface's
// animation frame counter.
func (l *Loading) Render(surface state.CellSurface, _ state.IndexPath) state.Cell {
	frame := 0
	if surface != nil {
		frame = surface.Frame()
	}
	idx := frame % len(loadingFrames)
	if idx < 0 {
		idx += len(loadingFrames)
	}
	title := l.Title
	if title == "" {
		title = "Loading"
	}
	return state.Cell{
		Text:   fmt.Sprintf("%s %s", loadingFrames[idx], title),
		Status: "muted",
		Icon:   emoji.GetEmoji("loading"),
	}
}

// OnSelect implements state.Content
func (l *Loading) OnSelect() {}
