package formatter

import (
	"encoding/json"

	"github.com/yildizm/statelist/internal/diff"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Summary Summary       `json:"summary"`
	Stages  []StageOutput `json:"stages"`
}

// StageOutput is one stage of the JSON document
type StageOutput struct {
	Index int          `json:"index"`
	Edits []EditOutput `json:"edits"`
}

// EditOutput is one edit with the identity it touches
type EditOutput struct {
	diff.Edit
	Subject string `json:"subject,omitempty"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		Source:  report.SourceName,
		Target:  report.TargetName,
		Summary: report.Summary(),
		Stages:  make([]StageOutput, len(report.Changes)),
	}

	for i := range output.Stages {
		output.Stages[i] = StageOutput{Index: i, Edits: []EditOutput{}}
	}
	for _, e := range report.Changes.Edits() {
		output.Stages[e.Stage].Edits = append(output.Stages[e.Stage].Edits, EditOutput{Edit: e, Subject: subject(report, e)})
	}

	return json.MarshalIndent(output, "", "  ")
}
