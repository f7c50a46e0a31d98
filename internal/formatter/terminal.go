package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/statelist/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeSummary(&b, report.Summary())

	if report.Changes.IsEmpty() {
		b.WriteString("No changes\n")
		return []byte(b.String()), nil
	}

	f.writeStages(&b, report)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, report *Report) {
	title := fmt.Sprintf("Changeset %s -> %s", report.SourceName, report.TargetName)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n\n")
}

// writeSummary writes the edit counts as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, s Summary) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "Source", Value: fmt.Sprintf("%d sections, %s rows", s.SourceSections, formatNumber(s.SourceElements))},
		{Label: "Target", Value: fmt.Sprintf("%d sections, %s rows", s.TargetSections, formatNumber(s.TargetElements))},
		{Label: "Stages", Value: fmt.Sprintf("%d", s.Stages)},
		{
			Label: "Sections",
			Value: fmt.Sprintf("%d", s.SectionInserts+s.SectionDeletes+s.SectionMoves+s.SectionUpdates),
			Children: []termfmt.TreeItem{
				{Label: "Inserted", Value: fmt.Sprintf("%d", s.SectionInserts)},
				{Label: "Deleted", Value: fmt.Sprintf("%d", s.SectionDeletes)},
				{Label: "Moved", Value: fmt.Sprintf("%d", s.SectionMoves)},
				{Label: "Updated", Value: fmt.Sprintf("%d", s.SectionUpdates), Last: true},
			},
		},
		{
			Label: "Rows",
			Value: fmt.Sprintf("%d", s.ElementInserts+s.ElementDeletes+s.ElementMoves+s.ElementUpdates),
			Last:  true,
			Children: []termfmt.TreeItem{
				{Label: "Inserted", Value: fmt.Sprintf("%d", s.ElementInserts)},
				{Label: "Deleted", Value: fmt.Sprintf("%d", s.ElementDeletes)},
				{Label: "Moved", Value: fmt.Sprintf("%d", s.ElementMoves)},
				{Label: "Updated", Value: fmt.Sprintf("%d", s.ElementUpdates), Last: true},
			},
		},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeStages writes every stage with its edits in batch order
func (f *terminalFormatter) writeStages(b *strings.Builder, report *Report) {
	edits := report.Changes.Edits()
	for i := range report.Changes {
		fmt.Fprintf(b, "Stage %d (%d edits)\n", i+1, report.Changes[i].ChangeCount())

		var items []termfmt.TreeItem
		for _, e := range edits {
			if e.Stage != i {
				continue
			}
			label := fmt.Sprintf("%s %s", kindEmoji(e.Kind), e.String())
			items = append(items, termfmt.TreeItem{Label: label, Value: subject(report, e)})
		}
		if len(items) > 0 {
			items[len(items)-1].Last = true
		}

		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
	}
}
