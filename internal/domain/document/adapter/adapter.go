// Package adapter converts loosely typed domain records into ordered section
// sequences. There is one Adapter per artifact type; each is a pure function of
// its input record and safe for concurrent use.
package adapter

import (
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
)

// Adapter builds the section sequence for one artifact type.
// Build never fails: absent concepts are omitted and malformed values degrade
// to placeholders or zero.
type Adapter interface {
	// ArtifactType returns the artifact type this adapter handles
	ArtifactType() document.ArtifactType

	// Build converts rec into sections in reading order
	Build(rec record.Record) []document.Section
}

// Func adapts a plain function to the Adapter interface
type Func struct {
	Type    document.ArtifactType
	BuildFn func(rec record.Record) []document.Section
}

// ArtifactType implements Adapter
func (f Func) ArtifactType() document.ArtifactType {
	return f.Type
}

// Build implements Adapter
func (f Func) Build(rec record.Record) []document.Section {
	return f.BuildFn(rec)
}

// Concepts shared by several adapters
var (
	notesField    = record.Field{"notes", "comments", "remarks"}
	addressField  = record.Field{"address", "addressLine", "street", "location"}
	emailField    = record.Field{"email", "emailAddress"}
	phoneField    = record.Field{"phone", "phoneNumber", "telephone", "mobile"}
	currencyField = record.Field{"currency", "currencyCode"}
	dayNameField  = record.Field{"name", "day", "title", "label"}
	itemTextField = record.Field{"name", "title", "label", "text", "description", "value"}
)

// status resolves a status field, falling back to def when absent
func status(rec record.Record, def string) string {
	return record.Field{"status", "state"}.StringOr(rec, def)
}

// meta is shorthand for a meta field whose value is resolved from rec
func meta(label string, f record.Field, rec record.Record) document.MetaField {
	v, _ := f.String(rec)
	return document.MetaField{Label: label, Value: v}
}

// partyLines renders a party given either as a name or as a record with
// name and contact details
func partyLines(v record.Record) []string {
	lines := make([]string, 0, 4)
	for _, f := range []record.Field{
		{"name", "company", "companyName", "fullName"},
		addressField,
		emailField,
		phoneField,
	} {
		if s, ok := f.String(v); ok {
			lines = append(lines, s)
		}
	}
	return lines
}

// groupSection emits heading plus a table of columns when the group holds
// records, or a list when it holds plain values
func groupSection(b *document.Builder, heading string, g record.Group, headers []string, columns []record.Field) {
	if g.Structured() {
		b.Table(heading, headers, g.Rows(columns...))
		return
	}
	b.List(heading, g.Texts(itemTextField))
}
