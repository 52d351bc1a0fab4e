package adapter

import (
	"sort"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
)

const defaultCarePlanStatus = "active"

var (
	patientField    = record.Field{"patientName", "patient.name", "patient.fullName", "patient"}
	dobField        = record.Field{"dateOfBirth", "dob", "birthDate", "patient.dateOfBirth", "patient.dob", "patient.birthDate"}
	mrnField        = record.Field{"mrn", "medicalRecordNumber", "patientId", "patient.mrn", "patient.id"}
	providerField   = record.Field{"provider", "providerName", "physician", "clinician", "doctor"}
	planDateField   = record.Field{"planDate", "date", "createdAt", "startDate"}
	reviewDateField = record.Field{"reviewDate", "nextReview", "reviewBy"}

	diagnosesGroup = record.Field{"conditions", "diagnoses", "problems"}
	diagnosisCols  = []record.Field{
		{"name", "condition", "diagnosis", "problem", "description"},
		{"code", "icdCode", "icd10", "icd"},
		{"status", "clinicalStatus"},
		{"onset", "onsetDate", "since", "diagnosedAt"},
	}

	goalsGroup = record.Field{"goals", "objectives", "targets"}
	goalCols   = []record.Field{
		{"name", "goal", "description", "title"},
		{"target", "measure", "metric"},
		{"timeframe", "targetDate", "dueDate", "by"},
		{"status", "progress"},
	}

	medicationsGroup = record.Field{"medications", "meds", "prescriptions"}
	medicationCols   = []record.Field{
		{"name", "medication", "drug"},
		{"dose", "dosage", "strength"},
		{"frequency", "schedule"},
		{"route"},
		{"instructions", "sig", "notes"},
	}

	allergiesGroup = record.Field{"allergies", "allergyList"}
	allergyCols    = []record.Field{
		{"name", "allergen", "substance"},
		{"reaction", "response"},
		{"severity"},
	}

	interventionsGroup = record.Field{"interventions", "actions", "tasks", "careActivities"}
	interventionCols   = []record.Field{
		{"name", "intervention", "action", "task", "description"},
		{"frequency", "schedule"},
		{"responsible", "assignedTo", "owner"},
	}

	careTeamGroup = record.Field{"careTeam", "team", "providers"}
	careTeamCols  = []record.Field{
		{"name"},
		{"role", "specialty"},
		{"contact", "phone", "email"},
	}

	followUpGroup = record.Field{"followUps", "appointments", "followUp"}
	followUpCols  = []record.Field{
		{"date", "when", "scheduledAt", "name"},
		{"type", "reason", "purpose"},
		{"with", "provider", "clinician"},
	}

	careInstructionsField = record.Field{"instructions", "patientInstructions"}
	careNotesField        = record.Field{"notes", "summary", "comments"}
)

// CarePlanAdapter builds care plan documents
type CarePlanAdapter struct{}

// NewCarePlanAdapter creates a new CarePlanAdapter
func NewCarePlanAdapter() *CarePlanAdapter {
	return &CarePlanAdapter{}
}

// ArtifactType implements Adapter
func (a *CarePlanAdapter) ArtifactType() document.ArtifactType {
	return document.ArtifactTypeCarePlan
}

// Build implements Adapter
func (a *CarePlanAdapter) Build(rec record.Record) []document.Section {
	b := document.NewBuilder()

	b.Meta(
		meta("Patient", patientField, rec),
		meta("Date of Birth", dobField, rec),
		meta("MRN", mrnField, rec),
		meta("Provider", providerField, rec),
		meta("Plan Date", planDateField, rec),
		meta("Review Date", reviewDateField, rec),
		document.MetaField{Label: "Status", Value: status(rec, defaultCarePlanStatus)},
	)

	groups := []struct {
		heading string
		field   record.Field
		headers []string
		columns []record.Field
	}{
		{"Diagnoses", diagnosesGroup, []string{"Diagnosis", "Code", "Status", "Onset"}, diagnosisCols},
		{"Goals", goalsGroup, []string{"Goal", "Target", "Timeframe", "Status"}, goalCols},
		{"Medications", medicationsGroup, []string{"Medication", "Dose", "Frequency", "Route", "Instructions"}, medicationCols},
		{"Allergies", allergiesGroup, []string{"Allergen", "Reaction", "Severity"}, allergyCols},
		{"Interventions", interventionsGroup, []string{"Intervention", "Frequency", "Responsible"}, interventionCols},
		{"Care Team", careTeamGroup, []string{"Name", "Role", "Contact"}, careTeamCols},
		{"Follow-up", followUpGroup, []string{"Date", "Type", "With"}, followUpCols},
	}
	for _, grp := range groups {
		if g, ok := grp.field.Group(rec); ok {
			groupSection(b, grp.heading, g, grp.headers, grp.columns)
		}
	}

	textOrList(b, "Instructions", careInstructionsField, rec)
	textOrList(b, "Notes", careNotesField, rec)

	return b.Sections()
}

// textOrList emits prose for a string value, a list for a collection and
// "Key: value" lines for a nested record
func textOrList(b *document.Builder, heading string, f record.Field, rec record.Record) {
	v, ok := f.Lookup(rec)
	if !ok {
		return
	}
	if s, isString := v.(string); isString {
		b.Text(heading, s)
		return
	}
	if nested, isRecord := record.FromAny(v); isRecord {
		b.List(heading, keyValueLines(nested))
		return
	}
	if g, ok := record.NewGroup(v); ok {
		b.List(heading, g.Texts(itemTextField))
		return
	}
	b.Text(heading, record.DisplayString(v))
}

// collectionGroup is f's group unless its value is prose for textOrList
func collectionGroup(f record.Field, rec record.Record) (record.Group, bool) {
	if v, ok := f.Lookup(rec); ok {
		if _, isString := v.(string); isString {
			return record.Group{}, false
		}
	}
	return f.Group(rec)
}

func keyValueLines(rec record.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := record.DisplayString(rec[k]); s != "" {
			lines = append(lines, record.Title(k)+": "+s)
		}
	}
	return lines
}
