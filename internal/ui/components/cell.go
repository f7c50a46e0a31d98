package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/state"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	infoColor    = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectColor  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	flashColor   = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#1F2937"}
)

// RowState is how a row is decorated on top of its own status color
type RowState struct {
	Selected    bool
	Highlighted bool   // touched by the batch currently being applied
	Marker      string // animation marker shown while highlighted
}

// StatusStyle returns the foreground style for a cell status
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "success":
		return lipgloss.NewStyle().Foreground(successColor)
	case "warning":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "error":
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	case "info":
		return lipgloss.NewStyle().Foreground(infoColor)
	case "muted":
		return lipgloss.NewStyle().Foreground(mutedColor)
	default:
		return lipgloss.NewStyle()
	}
}

// RenderRow renders one cell as a single line at most width cells wide
func RenderRow(cell state.Cell, rs RowState, width int) string {
	prefix := "  "
	if rs.Selected {
		prefix = "> "
	}

	marker := " "
	if rs.Highlighted && rs.Marker != "" {
		marker = rs.Marker
	}

	icon := cell.Icon
	if icon == "" {
		icon = " "
	}

	text := fmt.Sprintf("%s%s %s %s", prefix, marker, icon, cell.Text)
	text = truncate(text, width)

	style := StatusStyle(cell.Status)
	if !cell.Selectable {
		style = style.Faint(true)
	}
	switch {
	case rs.Selected:
		style = style.Background(selectColor).Bold(true)
	case rs.Highlighted:
		style = style.Background(flashColor)
	}
	return style.Render(text)
}

// RenderSectionHeader renders a section header line. count is the number of
// rows in the section, shown when it is collapsed.
func RenderSectionHeader(model state.SectionState, text string, count int, rs RowState, width int) string {
	glyph := emoji.GetEmoji("expanded")
	if model.Collapsed {
		glyph = emoji.GetEmoji("collapsed")
	}
	if text == "" {
		text = model.ID
	}

	line := fmt.Sprintf("%s %s", glyph, text)
	if model.Collapsed {
		line += fmt.Sprintf(" (%d)", count)
	}
	if rs.Highlighted && rs.Marker != "" {
		line += " " + rs.Marker
	}
	line = truncate(line, width)

	style := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	switch {
	case rs.Selected:
		style = style.Background(selectColor)
	case rs.Highlighted:
		style = style.Background(flashColor)
	}
	return style.Render(line)
}

// RenderSectionFooter renders a section footer line
func RenderSectionFooter(text string, width int) string {
	return lipgloss.NewStyle().Foreground(mutedColor).Italic(true).Render(truncate("  "+text, width))
}

// truncate cuts s to width display cells; width <= 0 disables it
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > width-1 {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}
