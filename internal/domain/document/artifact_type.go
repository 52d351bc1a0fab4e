package document

import "strings"

// ArtifactType represents the kind of domain record an artifact carries
type ArtifactType string

const (
	ArtifactTypeCarePlan ArtifactType = "CARE_PLAN"
	ArtifactTypeInvoice  ArtifactType = "INVOICE"
	ArtifactTypeWorkout  ArtifactType = "WORKOUT"
	ArtifactTypeMealPlan ArtifactType = "MEAL_PLAN"
	ArtifactTypeContract ArtifactType = "CONTRACT"
)

var artifactTypeAliases = map[string]ArtifactType{
	"careplan":        ArtifactTypeCarePlan,
	"plan":            ArtifactTypeCarePlan,
	"invoice":         ArtifactTypeInvoice,
	"bill":            ArtifactTypeInvoice,
	"workout":         ArtifactTypeWorkout,
	"workoutprogram":  ArtifactTypeWorkout,
	"workoutplan":     ArtifactTypeWorkout,
	"trainingprogram": ArtifactTypeWorkout,
	"mealplan":        ArtifactTypeMealPlan,
	"dietplan":        ArtifactTypeMealPlan,
	"nutritionplan":   ArtifactTypeMealPlan,
	"contract":        ArtifactTypeContract,
	"legalcontract":   ArtifactTypeContract,
	"agreement":       ArtifactTypeContract,
}

// ParseArtifactType resolves a case-insensitive type name or alias.
// Separators are ignored, so "care-plan", "care_plan" and "CarePlan" are equal.
func ParseArtifactType(s string) (ArtifactType, bool) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '.':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	t, ok := artifactTypeAliases[key]
	return t, ok
}

// IsValid checks if the ArtifactType is a valid value
func (t ArtifactType) IsValid() bool {
	switch t {
	case ArtifactTypeCarePlan, ArtifactTypeInvoice, ArtifactTypeWorkout,
		ArtifactTypeMealPlan, ArtifactTypeContract:
		return true
	}
	return false
}

// String returns the string representation of ArtifactType
func (t ArtifactType) String() string {
	return string(t)
}

// DisplayName returns the human readable name, used as the fallback document title
func (t ArtifactType) DisplayName() string {
	switch t {
	case ArtifactTypeCarePlan:
		return "Care Plan"
	case ArtifactTypeInvoice:
		return "Invoice"
	case ArtifactTypeWorkout:
		return "Workout Program"
	case ArtifactTypeMealPlan:
		return "Meal Plan"
	case ArtifactTypeContract:
		return "Contract"
	default:
		return string(t)
	}
}

// AllArtifactTypes returns all valid ArtifactType values
func AllArtifactTypes() []ArtifactType {
	return []ArtifactType{
		ArtifactTypeCarePlan, ArtifactTypeInvoice, ArtifactTypeWorkout,
		ArtifactTypeMealPlan, ArtifactTypeContract,
	}
}
