package document

import (
	"strings"

	"github.com/lenses/backend/internal/domain/document/record"
)

// Placeholder is rendered for cells whose value could not be resolved
const Placeholder = record.Placeholder

// Builder accumulates sections in reading order. Every method drops its output
// when there is nothing to show, so a heading is only ever emitted together with
// the body it introduces.
type Builder struct {
	sections []Section
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Meta emits a meta block from the fields that have a value
func (b *Builder) Meta(fields ...MetaField) *Builder {
	kept := make([]MetaField, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) > 0 {
		b.sections = append(b.sections, Meta(kept...))
	}
	return b
}

// Table emits a heading (when non-empty) followed by a table, or nothing when
// there are no rows
func (b *Builder) Table(heading string, headers []string, rows [][]string) *Builder {
	if len(rows) == 0 || len(headers) == 0 {
		return b
	}
	b.heading(heading)
	b.sections = append(b.sections, Table(headers, rows, Placeholder))
	return b
}

// List emits a heading (when non-empty) followed by a list of the non-blank items
func (b *Builder) List(heading string, items []string) *Builder {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == 0 {
		return b
	}
	b.heading(heading)
	b.sections = append(b.sections, List(kept...))
	return b
}

// Text emits a heading (when non-empty) followed by a prose block
func (b *Builder) Text(heading, text string) *Builder {
	if strings.TrimSpace(text) == "" {
		return b
	}
	b.heading(heading)
	b.sections = append(b.sections, Text(text))
	return b
}

// Group runs fn against a scratch builder and emits heading plus whatever fn
// produced; when fn produced nothing the heading is dropped too
func (b *Builder) Group(heading string, fn func(*Builder)) *Builder {
	sub := &Builder{}
	fn(sub)
	if len(sub.sections) == 0 {
		return b
	}
	b.heading(heading)
	b.sections = append(b.sections, sub.sections...)
	return b
}

// Len returns the number of sections emitted so far
func (b *Builder) Len() int {
	return len(b.sections)
}

// Sections returns the accumulated sections
func (b *Builder) Sections() []Section {
	out := make([]Section, len(b.sections))
	copy(out, b.sections)
	return out
}

func (b *Builder) heading(text string) {
	if text = strings.TrimSpace(text); text != "" {
		b.sections = append(b.sections, Heading(text))
	}
}
