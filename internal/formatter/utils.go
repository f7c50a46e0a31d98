package formatter

import (
	"fmt"

	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/state"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// kindEmoji returns the glyph for an edit kind
func kindEmoji(kind diff.Kind) string {
	return emoji.GetEmoji(string(kind))
}

// subject names what an edit touches: the section id or the element identity
func subject(r *Report, e diff.Edit) string {
	view, path := r.Source, e.From
	if e.Kind == diff.KindInsert {
		// insert positions refer to the stage's resulting data
		view, path = r.Changes[e.Stage].Data, e.To
	} else if e.Stage > 0 {
		view = r.Changes[e.Stage-1].Data
	}
	if path == nil {
		return ""
	}
	if e.Level == diff.LevelSection {
		if s, ok := view.Section(path.Section); ok {
			return s.Model.ID
		}
		return ""
	}
	if el, ok := view.Element(*path); ok {
		return el.Identity()
	}
	return ""
}

func location(p *state.IndexPath, level diff.Level) string {
	if p == nil {
		return ""
	}
	if level == diff.LevelSection {
		return fmt.Sprintf("%d", p.Section)
	}
	return p.String()
}
