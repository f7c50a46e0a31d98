package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Changeset `%s` → `%s`\n\n", report.SourceName, report.TargetName)

	f.writeSummaryTable(&b, report.Summary())

	if report.Changes.IsEmpty() {
		b.WriteString("No changes.\n")
		return []byte(b.String()), nil
	}

	f.writeStages(&b, report)

	return []byte(b.String()), nil
}

// writeSummaryTable writes the edit counts as a table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, s Summary) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Level | Inserted | Deleted | Moved | Updated |\n")
	b.WriteString("|-------|---------:|--------:|------:|--------:|\n")
	fmt.Fprintf(b, "| Sections | %d | %d | %d | %d |\n", s.SectionInserts, s.SectionDeletes, s.SectionMoves, s.SectionUpdates)
	fmt.Fprintf(b, "| Rows | %d | %d | %d | %d |\n\n", s.ElementInserts, s.ElementDeletes, s.ElementMoves, s.ElementUpdates)
	fmt.Fprintf(b, "Source: %d sections, %s rows. Target: %d sections, %s rows. %d stages.\n\n",
		s.SourceSections, formatNumber(s.SourceElements), s.TargetSections, formatNumber(s.TargetElements), s.Stages)
}

// writeStages writes one list per stage
func (f *markdownFormatter) writeStages(b *strings.Builder, report *Report) {
	b.WriteString("## Stages\n\n")

	edits := report.Changes.Edits()
	for i := range report.Changes {
		fmt.Fprintf(b, "### Stage %d\n\n", i+1)
		for _, e := range edits {
			if e.Stage != i {
				continue
			}
			line := fmt.Sprintf("- %s", e.String())
			if s := subject(report, e); s != "" {
				line += fmt.Sprintf(" (`%s`)", s)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
}
