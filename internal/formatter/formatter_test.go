package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/statelist/internal/emoji"
	st "github.com/yildizm/statelist/internal/state/statetest"
)

func sampleReport() *Report {
	source := st.V(st.S("A", "1", "2", "3"), st.S("B", "4"))
	target := st.V(st.S("A", "1", "3", "2"), st.S("C", "5"))
	return NewReport("old.yaml", "new.yaml", source, target)
}

func TestSummary(t *testing.T) {
	s := sampleReport().Summary()

	if s.SectionDeletes != 1 || s.SectionInserts != 1 {
		t.Errorf("Expected 1 section delete and insert, got %+v", s)
	}
	if s.ElementMoves != 1 {
		t.Errorf("Expected 1 element move, got %d", s.ElementMoves)
	}
	if s.SourceElements != 4 || s.TargetElements != 4 {
		t.Errorf("Unexpected element totals %+v", s)
	}
	if s.ElementInserts != 1 {
		t.Errorf("Expected the row of C as 1 element insert, got %d", s.ElementInserts)
	}
	if s.Edits != 4 {
		t.Errorf("Expected 4 edits, got %d", s.Edits)
	}
}

func TestTerminalFormat(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	out, err := NewTerminal(false).Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"Changeset old.yaml -> new.yaml", "Summary", "Stage 1", "delete section 1", "insert section 1", "[~] move element"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}
}

func TestTerminalNoChanges(t *testing.T) {
	v := st.V(st.S("A", "1"))
	out, err := NewTerminal(false).Format(NewReport("a", "b", v, v))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(out), "No changes") {
		t.Errorf("Expected no-changes note, got:\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	out, err := NewJSON().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc JSONOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.Source != "old.yaml" || doc.Summary.Edits != 4 {
		t.Errorf("Unexpected document %+v", doc)
	}

	subjects := map[string]bool{}
	for _, stage := range doc.Stages {
		for _, e := range stage.Edits {
			subjects[e.Subject] = true
		}
	}
	for _, want := range []string{"B", "C"} {
		if !subjects[want] {
			t.Errorf("Expected an edit touching %s, got %v", want, subjects)
		}
	}
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdown().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	if !strings.Contains(text, "| Sections | 1 | 1 | 0 | 0 |") {
		t.Errorf("Expected section counts row:\n%s", text)
	}
	if !strings.Contains(text, "- delete section 1 (`B`)") {
		t.Errorf("Expected delete with subject:\n%s", text)
	}
}

func TestCSVFormat(t *testing.T) {
	out, err := NewCSV().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected header plus 4 edits, got %d records", len(records))
	}
	if records[0][0] != "Stage" {
		t.Errorf("Expected header row, got %v", records[0])
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "json", "markdown", "csv"} {
		if _, err := New(format, false); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("xml", false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{7: "7", 999: "999", 1000: "1,000", 1234567: "1,234,567"}
	for n, want := range tests {
		if got := formatNumber(n); got != want {
			t.Errorf("formatNumber(%d) = %s, want %s", n, got, want)
		}
	}
}
