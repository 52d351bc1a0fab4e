package adapter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sectionAfter returns the section following the heading with the given text
func sectionAfter(sections []document.Section, heading string) (document.Section, bool) {
	for i, s := range sections {
		if s.Type == document.SectionHeading && s.Text == heading && i+1 < len(sections) {
			return sections[i+1], true
		}
	}
	return document.Section{}, false
}

func headings(sections []document.Section) []string {
	var out []string
	for _, s := range sections {
		if s.Type == document.SectionHeading {
			out = append(out, s.Text)
		}
	}
	return out
}

func TestCarePlanAdapter_DiagnosisSynonyms(t *testing.T) {
	a := NewCarePlanAdapter()

	byName := a.Build(record.Record{
		"diagnoses": []any{map[string]any{"name": "Hypertension", "code": "I10"}},
	})
	byCondition := a.Build(record.Record{
		"conditions": []any{map[string]any{"condition": "Hypertension", "icdCode": "I10"}},
	})

	left, ok := sectionAfter(byName, "Diagnoses")
	require.True(t, ok)
	right, ok := sectionAfter(byCondition, "Diagnoses")
	require.True(t, ok)

	assert.Equal(t, document.SectionTable, left.Type)
	assert.Equal(t, [][]string{{"Hypertension", "I10", "—", "—"}}, left.Rows)
	if diff := cmp.Diff(left, right); diff != "" {
		t.Errorf("synonym keys produced different tables (-diagnoses +conditions):\n%s", diff)
	}
}

func TestCarePlanAdapter_Build(t *testing.T) {
	rec := record.Record{
		"patient": map[string]any{
			"name": "Jane Doe",
			"dob":  "1960-04-12",
			"mrn":  "MRN-0042",
		},
		"provider":   "Dr. Patel",
		"planDate":   "2024-05-01",
		"reviewDate": "2024-08-01",
		"status":     "under review",
		"problems": []any{
			map[string]any{"diagnosis": "Type 2 diabetes", "icd10": "E11.9", "status": "active", "onset": "2019"},
		},
		"goals": []any{"HbA1c below 7%", "Walk 30 minutes daily"},
		"meds": []any{
			map[string]any{"name": "Metformin", "dosage": "500 mg", "frequency": "twice daily", "route": "oral"},
		},
		"allergies": []any{},
		"careTeam": []any{
			map[string]any{"name": "Sam Lee", "role": "Nurse", "phone": "555-0100"},
		},
		"followUp":     map[string]any{"date": "2024-06-01", "type": "Lab review", "with": "Dr. Patel"},
		"instructions": "Check blood glucose every morning.",
		"notes":        []any{"Prefers morning appointments"},
	}

	want := []document.Section{
		document.Meta(
			document.MetaField{Label: "Patient", Value: "Jane Doe"},
			document.MetaField{Label: "Date of Birth", Value: "1960-04-12"},
			document.MetaField{Label: "MRN", Value: "MRN-0042"},
			document.MetaField{Label: "Provider", Value: "Dr. Patel"},
			document.MetaField{Label: "Plan Date", Value: "2024-05-01"},
			document.MetaField{Label: "Review Date", Value: "2024-08-01"},
			document.MetaField{Label: "Status", Value: "under review"},
		),
		document.Heading("Diagnoses"),
		{
			Type:    document.SectionTable,
			Headers: []string{"Diagnosis", "Code", "Status", "Onset"},
			Rows:    [][]string{{"Type 2 diabetes", "E11.9", "active", "2019"}},
		},
		document.Heading("Goals"),
		document.List("HbA1c below 7%", "Walk 30 minutes daily"),
		document.Heading("Medications"),
		{
			Type:    document.SectionTable,
			Headers: []string{"Medication", "Dose", "Frequency", "Route", "Instructions"},
			Rows:    [][]string{{"Metformin", "500 mg", "twice daily", "oral", "—"}},
		},
		document.Heading("Care Team"),
		{
			Type:    document.SectionTable,
			Headers: []string{"Name", "Role", "Contact"},
			Rows:    [][]string{{"Sam Lee", "Nurse", "555-0100"}},
		},
		document.Heading("Follow-up"),
		{
			Type:    document.SectionTable,
			Headers: []string{"Date", "Type", "With"},
			Rows:    [][]string{{"2024-06-01", "Lab review", "Dr. Patel"}},
		},
		document.Heading("Instructions"),
		document.Text("Check blood glucose every morning."),
		document.Heading("Notes"),
		document.List("Prefers morning appointments"),
	}

	got := NewCarePlanAdapter().Build(rec)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestCarePlanAdapter_EmptyRecord(t *testing.T) {
	got := NewCarePlanAdapter().Build(record.Record{})

	assert.Equal(t, []document.Section{
		document.Meta(document.MetaField{Label: "Status", Value: "active"}),
	}, got)
	assert.Empty(t, headings(got))
}

func TestCarePlanAdapter_ScalarGroups(t *testing.T) {
	got := NewCarePlanAdapter().Build(record.Record{
		"allergies": "Penicillin",
		"followUp":  "in 2 weeks",
	})

	assert.Equal(t, []string{"Allergies", "Follow-up"}, headings(got))
	allergies, ok := sectionAfter(got, "Allergies")
	require.True(t, ok)
	assert.Equal(t, document.List("Penicillin"), allergies)
	followUp, ok := sectionAfter(got, "Follow-up")
	require.True(t, ok)
	assert.Equal(t, document.List("in 2 weeks"), followUp)
}
