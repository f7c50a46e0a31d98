package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/state"
)

func TestRenderRow(t *testing.T) {
	cell := state.Cell{Text: "Deploy api", Icon: "-", Status: "success", Selectable: true}

	got := RenderRow(cell, RowState{}, 0)
	if !strings.Contains(got, "Deploy api") {
		t.Errorf("Expected row text, got %q", got)
	}

	got = RenderRow(cell, RowState{Selected: true}, 0)
	if !strings.Contains(got, "> ") {
		t.Errorf("Expected selection prefix, got %q", got)
	}

	got = RenderRow(cell, RowState{Highlighted: true, Marker: "~"}, 0)
	if !strings.Contains(got, "~") {
		t.Errorf("Expected animation marker, got %q", got)
	}

	got = RenderRow(cell, RowState{Marker: "~"}, 0)
	if strings.Contains(got, "~") {
		t.Errorf("Expected no marker on a row outside the batch, got %q", got)
	}
}

func TestRenderRowTruncates(t *testing.T) {
	cell := state.Cell{Text: strings.Repeat("x", 50)}

	got := RenderRow(cell, RowState{}, 20)
	if w := lipgloss.Width(got); w > 20 {
		t.Errorf("Expected width <= 20, got %d (%q)", w, got)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	got := RenderSectionHeader(state.SectionState{ID: "later", Collapsed: true}, "Later", 2, RowState{}, 0)
	if !strings.Contains(got, "> Later (2)") {
		t.Errorf("Expected collapsed header with count, got %q", got)
	}

	got = RenderSectionHeader(state.SectionState{ID: "today"}, "", 3, RowState{}, 0)
	if !strings.Contains(got, "v today") || strings.Contains(got, "(3)") {
		t.Errorf("Expected expanded header falling back to id, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 0, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
