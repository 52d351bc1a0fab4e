package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_DropsEmptyConcepts(t *testing.T) {
	b := NewBuilder().
		Meta(MetaField{Label: "Patient", Value: "Ada"}, MetaField{Label: "MRN", Value: " "}).
		Table("Medications", []string{"Name"}, nil).
		List("Allergies", []string{"", "  "}).
		Text("Notes", "").
		Group("Schedule", func(*Builder) {})

	assert.Equal(t, []Section{
		Meta(MetaField{Label: "Patient", Value: "Ada"}),
	}, b.Sections())
}

func TestBuilder_HeadingTravelsWithBody(t *testing.T) {
	b := NewBuilder().
		List("Goals", []string{"Walk daily"}).
		Table("", []string{"A", "B"}, [][]string{{"1"}}).
		Group("Day 1", func(sb *Builder) {
			sb.Text("", "Warm-up: jog")
			sb.Group("Empty", func(*Builder) {})
		})

	assert.Equal(t, []Section{
		Heading("Goals"),
		List("Walk daily"),
		{Type: SectionTable, Headers: []string{"A", "B"}, Rows: [][]string{{"1", Placeholder}}},
		Heading("Day 1"),
		Text("Warm-up: jog"),
	}, b.Sections())
	assert.Equal(t, 5, b.Len())
	assert.NoError(t, Validate(b.Sections()))
}

func TestBuilder_MetaAllEmpty(t *testing.T) {
	b := NewBuilder().Meta(MetaField{Label: "A"}, MetaField{Label: "B", Value: ""})
	assert.Zero(t, b.Len())
}
