// Package fixture reads and writes list files: YAML documents describing
// sections and rows that load into a view state.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yildizm/statelist/internal/state"
	"github.com/yildizm/statelist/internal/table"
)

// File is the on-disk layout of a list file
type File struct {
	Sections []Section `yaml:"sections"`
}

// Section is one section of a list file
type Section struct {
	ID        string `yaml:"id"`
	Header    string `yaml:"header,omitempty"`
	Footer    string `yaml:"footer,omitempty"`
	Collapsed bool   `yaml:"collapsed,omitempty"`
	Rows      []Row  `yaml:"rows,omitempty"`
}

// Row is one row of a list file
type Row struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail,omitempty"`
	Status string `yaml:"status,omitempty"`
}

var validStatuses = map[string]bool{
	"": true, "success": true, "warning": true, "error": true, "info": true, "muted": true,
}

// Load reads and validates the list file at path
func Load(path string) (state.ViewState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read list file %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid list file %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes and validates a list document
func Parse(data []byte) (state.ViewState, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if strings.TrimSpace(string(data)) == "" {
			return state.ViewState{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.ViewState(), nil
}

// Validate checks identities and statuses
func (f *File) Validate() error {
	sections := make(map[string]bool, len(f.Sections))
	for i, s := range f.Sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: id is required", i)
		}
		if sections[s.ID] {
			return fmt.Errorf("section %d: duplicate id %q", i, s.ID)
		}
		sections[s.ID] = true

		rows := make(map[string]bool, len(s.Rows))
		for j, r := range s.Rows {
			if r.ID == "" {
				return fmt.Errorf("section %q row %d: id is required", s.ID, j)
			}
			if rows[r.ID] {
				return fmt.Errorf("section %q row %d: duplicate id %q", s.ID, j, r.ID)
			}
			rows[r.ID] = true
			if !validStatuses[r.Status] {
				return fmt.Errorf("section %q row %q: invalid status %q", s.ID, r.ID, r.Status)
			}
		}
	}
	return nil
}

// ViewState converts the file into a view state of table rows
func (f *File) ViewState() state.ViewState {
	v := make(state.ViewState, 0, len(f.Sections))
	for _, s := range f.Sections {
		elements := make([]state.Element, 0, len(s.Rows))
		for _, r := range s.Rows {
			elements = append(elements, state.NewElement(&table.Row{
				ID:     r.ID,
				Title:  r.Title,
				Detail: r.Detail,
				Status: r.Status,
			}))
		}
		model := state.SectionState{ID: s.ID, Header: s.Header, Footer: s.Footer, Collapsed: s.Collapsed}
		v = append(v, state.NewState(model, elements...))
	}
	return v
}

// FromViewState builds a list file from v. Rows that are not table rows are
// written with their identity and rendered text.
func FromViewState(v state.ViewState) *File {
	f := &File{Sections: make([]Section, 0, len(v))}
	for _, s := range v {
		section := Section{ID: s.Model.ID, Header: s.Model.Header, Footer: s.Model.Footer, Collapsed: s.Model.Collapsed}
		for i, e := range s.Elements {
			if e.Content == nil {
				continue
			}
			if row, ok := e.Content.(*table.Row); ok {
				section.Rows = append(section.Rows, Row{ID: row.ID, Title: row.Title, Detail: row.Detail, Status: row.Status})
				continue
			}
			cell := e.Content.Render(nil, state.Path(0, i))
			section.Rows = append(section.Rows, Row{ID: e.Identity(), Title: cell.Text, Status: cell.Status})
		}
		f.Sections = append(f.Sections, section)
	}
	return f
}

// Encode writes f as YAML
func (f *File) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode list file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode list file: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes v to path
func Save(path string, v state.ViewState) error {
	data, err := FromViewState(v).Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write list file %s: %w", path, err)
	}
	return nil
}
