package formatter

import (
	"fmt"

	"github.com/yildizm/statelist/internal/diff"
	"github.com/yildizm/statelist/internal/state"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is a changeset between two named lists
type Report struct {
	SourceName string
	TargetName string
	Source     state.ViewState
	Target     state.ViewState
	Changes    diff.Changeset
}

// NewReport diffs source against target
func NewReport(sourceName, targetName string, source, target state.ViewState) *Report {
	return &Report{
		SourceName: sourceName,
		TargetName: targetName,
		Source:     source,
		Target:     target,
		Changes:    diff.Compute(source, target),
	}
}

// Summary counts the edits of a report by kind and level
type Summary struct {
	Stages         int `json:"stages"`
	Edits          int `json:"edits"`
	SectionInserts int `json:"section_inserts"`
	SectionDeletes int `json:"section_deletes"`
	SectionMoves   int `json:"section_moves"`
	SectionUpdates int `json:"section_updates"`
	ElementInserts int `json:"element_inserts"`
	ElementDeletes int `json:"element_deletes"`
	ElementMoves   int `json:"element_moves"`
	ElementUpdates int `json:"element_updates"`
	SourceSections int `json:"source_sections"`
	SourceElements int `json:"source_elements"`
	TargetSections int `json:"target_sections"`
	TargetElements int `json:"target_elements"`
}

// Summary computes the edit counts
func (r *Report) Summary() Summary {
	c := r.Changes
	return Summary{
		Stages:         len(c),
		Edits:          c.ChangeCount(),
		SectionInserts: c.Count(diff.KindInsert, diff.LevelSection),
		SectionDeletes: c.Count(diff.KindDelete, diff.LevelSection),
		SectionMoves:   c.Count(diff.KindMove, diff.LevelSection),
		SectionUpdates: c.Count(diff.KindUpdate, diff.LevelSection),
		ElementInserts: c.Count(diff.KindInsert, diff.LevelElement),
		ElementDeletes: c.Count(diff.KindDelete, diff.LevelElement),
		ElementMoves:   c.Count(diff.KindMove, diff.LevelElement),
		ElementUpdates: c.Count(diff.KindUpdate, diff.LevelElement),
		SourceSections: len(r.Source),
		SourceElements: r.Source.ElementCount(),
		TargetSections: len(r.Target),
		TargetElements: r.Target.ElementCount(),
	}
}

// New returns the formatter for format: text, json, markdown or csv
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}
