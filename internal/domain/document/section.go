package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SectionType tags the variant of a Section node
type SectionType string

const (
	SectionHeading SectionType = "heading"
	SectionMeta    SectionType = "meta"
	SectionTable   SectionType = "table"
	SectionList    SectionType = "list"
	SectionText    SectionType = "text"
)

// IsValid checks if the SectionType is one of the five wire variants
func (t SectionType) IsValid() bool {
	switch t {
	case SectionHeading, SectionMeta, SectionTable, SectionList, SectionText:
		return true
	}
	return false
}

// String returns the string representation of SectionType
func (t SectionType) String() string {
	return string(t)
}

// Contract violations reported by Validate
var (
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrTableArity         = errors.New("table row length does not match header count")
	ErrEmptySection       = errors.New("section has no content")
)

// MetaField is one label/value pair of a meta block. Value is always a display string.
type MetaField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is one node of the canonical document representation.
// Only the fields belonging to Type are meaningful:
//
//	heading, text: Text
//	meta:          Fields
//	table:         Headers, Rows
//	list:          Items
type Section struct {
	Type    SectionType
	Text    string
	Fields  []MetaField
	Headers []string
	Rows    [][]string
	Items   []string
}

// Heading creates a heading section
func Heading(text string) Section {
	return Section{Type: SectionHeading, Text: text}
}

// Text creates a free-form prose section
func Text(text string) Section {
	return Section{Type: SectionText, Text: text}
}

// Meta creates a key/value summary section
func Meta(fields ...MetaField) Section {
	return Section{Type: SectionMeta, Fields: fields}
}

// List creates a list section
func List(items ...string) Section {
	return Section{Type: SectionList, Items: items}
}

// Table creates a table section. Rows are normalized to the header arity:
// short rows are padded with fill, long rows are truncated.
func Table(headers []string, rows [][]string, fill string) Section {
	normalized := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(headers))
		for j := range r {
			if j < len(row) {
				r[j] = row[j]
			} else {
				r[j] = fill
			}
		}
		normalized[i] = r
	}
	return Section{Type: SectionTable, Headers: headers, Rows: normalized}
}

// Validate checks the section against the wire contract
func (s Section) Validate() error {
	switch s.Type {
	case SectionHeading, SectionText:
		if s.Text == "" {
			return fmt.Errorf("%s: %w", s.Type, ErrEmptySection)
		}
	case SectionMeta:
		if len(s.Fields) == 0 {
			return fmt.Errorf("%s: %w", s.Type, ErrEmptySection)
		}
	case SectionList:
		if len(s.Items) == 0 {
			return fmt.Errorf("%s: %w", s.Type, ErrEmptySection)
		}
	case SectionTable:
		if len(s.Headers) == 0 || len(s.Rows) == 0 {
			return fmt.Errorf("%s: %w", s.Type, ErrEmptySection)
		}
		for i, row := range s.Rows {
			if len(row) != len(s.Headers) {
				return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(s.Headers), ErrTableArity)
			}
		}
	default:
		return fmt.Errorf("%q: %w", s.Type, ErrUnknownSectionType)
	}
	return nil
}

// Validate checks every section of a document and that no heading is left
// dangling at the end of the sequence
func Validate(sections []Section) error {
	for i, s := range sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	if n := len(sections); n > 0 && sections[n-1].Type == SectionHeading {
		return fmt.Errorf("section %d: trailing heading %q: %w", n-1, sections[n-1].Text, ErrEmptySection)
	}
	return nil
}

type headingWire struct {
	Type SectionType `json:"type"`
	Text string      `json:"text"`
}

type metaWire struct {
	Type   SectionType `json:"type"`
	Fields []MetaField `json:"fields"`
}

type tableWire struct {
	Type    SectionType `json:"type"`
	Headers []string    `json:"headers"`
	Rows    [][]string  `json:"rows"`
}

type listWire struct {
	Type  SectionType `json:"type"`
	Items []string    `json:"items"`
}

// MarshalJSON encodes exactly the fields of the section's variant
func (s Section) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case SectionHeading, SectionText:
		return json.Marshal(headingWire{Type: s.Type, Text: s.Text})
	case SectionMeta:
		return json.Marshal(metaWire{Type: s.Type, Fields: nonNil(s.Fields)})
	case SectionTable:
		rows := s.Rows
		if rows == nil {
			rows = [][]string{}
		}
		return json.Marshal(tableWire{Type: s.Type, Headers: nonNil(s.Headers), Rows: rows})
	case SectionList:
		return json.Marshal(listWire{Type: s.Type, Items: nonNil(s.Items)})
	}
	return nil, fmt.Errorf("marshal section: %q: %w", s.Type, ErrUnknownSectionType)
}

// UnmarshalJSON decodes a section from its tagged wire form
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type    SectionType `json:"type"`
		Text    string      `json:"text"`
		Fields  []MetaField `json:"fields"`
		Headers []string    `json:"headers"`
		Rows    [][]string  `json:"rows"`
		Items   []string    `json:"items"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.Type.IsValid() {
		return fmt.Errorf("unmarshal section: %q: %w", wire.Type, ErrUnknownSectionType)
	}
	*s = Section{Type: wire.Type}
	switch wire.Type {
	case SectionHeading, SectionText:
		s.Text = wire.Text
	case SectionMeta:
		s.Fields = wire.Fields
	case SectionTable:
		s.Headers, s.Rows = wire.Headers, wire.Rows
	case SectionList:
		s.Items = wire.Items
	}
	return nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
