package adapter

import (
	"strconv"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
)

const defaultWorkoutStatus = "active"

var (
	programField   = record.Field{"programName", "program", "name", "title"}
	clientField    = record.Field{"clientName", "client", "athlete", "trainee"}
	coachField     = record.Field{"coach", "trainer", "coachName", "trainerName"}
	goalField      = record.Field{"goal", "objective", "goals"}
	levelField     = record.Field{"level", "difficulty", "experience"}
	durationField  = record.Field{"duration", "durationWeeks", "length", "weeks"}
	frequencyField = record.Field{"frequency", "daysPerWeek", "sessionsPerWeek"}
	startDateField = record.Field{"startDate", "start", "date"}

	overviewField    = record.Field{"description", "overview", "summary"}
	equipmentGroup   = record.Field{"equipment", "equipmentNeeded", "gear"}
	scheduleGroup    = record.Field{"days", "sessions", "workouts", "schedule"}
	dayFocusField    = record.Field{"focus", "muscleGroup", "type"}
	warmUpField      = record.Field{"warmUp", "warmup", "warm_up"}
	coolDownField    = record.Field{"coolDown", "cooldown", "cool_down"}
	exercisesGroup   = record.Field{"exercises", "items", "movements"}
	progressionField = record.Field{"progression", "progressionNotes"}
	workoutNotes     = record.Field{"notes", "guidelines"}

	exerciseHeaders = []string{"Exercise", "Sets", "Reps", "Weight", "Rest", "Notes"}
	exerciseCols    = []record.Field{
		{"name", "exercise", "movement", "title"},
		{"sets"},
		{"reps", "repetitions", "duration", "time"},
		{"weight", "load", "intensity"},
		{"rest", "restPeriod", "restSeconds"},
		{"notes", "cue", "tips"},
	}
)

// WorkoutAdapter builds workout program documents
type WorkoutAdapter struct{}

// NewWorkoutAdapter creates a new WorkoutAdapter
func NewWorkoutAdapter() *WorkoutAdapter {
	return &WorkoutAdapter{}
}

// ArtifactType implements Adapter
func (a *WorkoutAdapter) ArtifactType() document.ArtifactType {
	return document.ArtifactTypeWorkout
}

// Build implements Adapter
func (a *WorkoutAdapter) Build(rec record.Record) []document.Section {
	b := document.NewBuilder()

	b.Meta(
		meta("Program", programField, rec),
		meta("Client", clientField, rec),
		meta("Coach", coachField, rec),
		meta("Goal", goalField, rec),
		meta("Level", levelField, rec),
		meta("Duration", durationField, rec),
		meta("Frequency", frequencyField, rec),
		meta("Start Date", startDateField, rec),
		document.MetaField{Label: "Status", Value: status(rec, defaultWorkoutStatus)},
	)

	textOrList(b, "Overview", overviewField, rec)

	if g, ok := equipmentGroup.Group(rec); ok {
		b.List("Equipment", g.Texts(itemTextField))
	}

	if g, ok := scheduleGroup.Group(rec); ok {
		b.Group("Schedule", func(sb *document.Builder) {
			if !g.Structured() {
				sb.List("", g.Texts(itemTextField))
				return
			}
			for i, it := range g.Items() {
				a.day(sb, i, it)
			}
		})
	} else if g, ok := exercisesGroup.Group(rec); ok {
		groupSection(b, "Exercises", g, exerciseHeaders, exerciseCols)
	}

	textOrList(b, "Progression", progressionField, rec)
	textOrList(b, "Notes", workoutNotes, rec)

	return b.Sections()
}

// day emits one training day. A day without any content emits nothing.
func (a *WorkoutAdapter) day(b *document.Builder, index int, it record.Item) {
	if it.Plain() {
		b.List("", []string{it.Text})
		return
	}
	day := it.Record
	b.Group(dayHeading(day, index, dayFocusField), func(db *document.Builder) {
		if s, ok := warmUpField.String(day); ok {
			db.Text("", "Warm-up: "+s)
		}
		if g, ok := exercisesGroup.Group(day); ok {
			groupSection(db, "", g, exerciseHeaders, exerciseCols)
		}
		if s, ok := coolDownField.String(day); ok {
			db.Text("", "Cool-down: "+s)
		}
		if s, ok := notesField.String(day); ok {
			db.Text("", s)
		}
	})
}

// dayHeading returns "<name>: <focus>", defaulting the name to "Day N".
// A bare day number is rendered as "Day <number>".
func dayHeading(day record.Record, index int, focus record.Field) string {
	name := dayNameField.StringOr(day, strconv.Itoa(index+1))
	if _, err := strconv.Atoi(name); err == nil {
		name = "Day " + name
	}
	if f, ok := focus.String(day); ok && f != name {
		return name + ": " + f
	}
	return name
}
