package adapter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
)

const (
	defaultMealPlanStatus = "active"
	otherCategory         = "Other"
)

var (
	planNameField     = record.Field{"planName", "name", "title"}
	mealClientField   = record.Field{"clientName", "client", "patient"}
	nutritionistField = record.Field{"nutritionist", "dietitian", "coach", "provider"}
	caloriesField     = record.Field{"dailyCalories", "calories", "calorieTarget", "targetCalories"}
	dietField         = record.Field{"diet", "dietType", "dietaryPreference"}

	macrosField    = record.Field{"macros", "macroTargets", "macronutrients"}
	macroOrder     = []string{"protein", "carbs", "carbohydrates", "fat", "fiber", "sugar", "sodium"}
	mealDaysGroup  = record.Field{"days", "mealDays", "schedule", "plan"}
	dayThemeField  = record.Field{"theme", "focus"}
	mealsGroup     = record.Field{"meals", "items"}
	mealSlots      = []string{"breakfast", "lunch", "dinner", "snack", "snacks"}
	mealNameField  = record.Field{"name", "meal", "type", "title"}
	mealTimeField  = record.Field{"time", "at"}
	foodsGroup     = record.Field{"foods", "items", "ingredients"}
	mealDescField  = record.Field{"description", "menu", "dish", "recipe"}
	prepTimeField  = record.Field{"prepTime", "prep"}
	cookTimeField  = record.Field{"cookTime", "cook"}
	mealStepsField = record.Field{"instructions", "directions", "method"}

	foodHeaders = []string{"Food", "Portion", "Calories", "Protein"}
	foodCols    = []record.Field{
		{"name", "food", "item", "title"},
		{"portion", "quantity", "amount", "serving", "servingSize"},
		{"calories", "kcal", "energy"},
		{"protein", "proteinGrams"},
	}

	groceryGroup         = record.Field{"groceryList", "shoppingList", "groceries"}
	groceryCategoryField = record.Field{"category", "aisle", "section"}
	groceryNameField     = record.Field{"name", "item", "food", "title"}
	groceryQtyField      = record.Field{"quantity", "qty", "amount"}
	mealNotesField       = record.Field{"notes", "guidelines", "comments"}
)

// MealPlanAdapter builds meal plan documents
type MealPlanAdapter struct{}

// NewMealPlanAdapter creates a new MealPlanAdapter
func NewMealPlanAdapter() *MealPlanAdapter {
	return &MealPlanAdapter{}
}

// ArtifactType implements Adapter
func (a *MealPlanAdapter) ArtifactType() document.ArtifactType {
	return document.ArtifactTypeMealPlan
}

// Build implements Adapter
func (a *MealPlanAdapter) Build(rec record.Record) []document.Section {
	b := document.NewBuilder()

	b.Meta(
		meta("Plan", planNameField, rec),
		meta("Client", mealClientField, rec),
		meta("Nutritionist", nutritionistField, rec),
		meta("Start Date", startDateField, rec),
		document.MetaField{Label: "Daily Calories", Value: kcal(rec)},
		meta("Diet", dietField, rec),
		document.MetaField{Label: "Status", Value: status(rec, defaultMealPlanStatus)},
	)

	if macros, ok := macrosField.Record(rec); ok {
		b.Table("Macro Targets", []string{"Nutrient", "Target"}, macroRows(macros))
	}

	if g, ok := mealDaysGroup.Group(rec); ok && !g.Structured() {
		b.List("Meals", g.Texts(itemTextField))
	} else if ok {
		for i, it := range g.Items() {
			if it.Plain() {
				b.List("", []string{it.Text})
				continue
			}
			day := it.Record
			b.Group(dayHeading(day, i, dayThemeField), func(db *document.Builder) {
				a.meals(db, day)
			})
		}
	} else if mealsGroup.Present(rec) {
		b.Group("Meals", func(db *document.Builder) {
			a.meals(db, rec)
		})
	}

	a.groceries(b, rec)
	textOrList(b, "Notes", mealNotesField, rec)

	return b.Sections()
}

// meals emits the meals of one day. Plain string meals become a single list.
func (a *MealPlanAdapter) meals(b *document.Builder, day record.Record) {
	g, ok := mealsGroup.Group(day)
	if !ok {
		g, ok = slotMeals(day)
		if !ok {
			return
		}
	}
	if !g.Structured() {
		b.List("", g.Texts(itemTextField))
		return
	}
	for i, it := range g.Items() {
		if it.Plain() {
			b.List("", []string{it.Text})
			continue
		}
		meal := it.Record
		b.Group(mealHeading(meal, i), func(mb *document.Builder) {
			if s, ok := mealDescField.String(meal); ok {
				mb.Text("", s)
			}
			if foods, ok := foodsGroup.Group(meal); ok {
				groupSection(mb, "", foods, foodHeaders, foodCols)
			} else if s := kcal(meal); s != "" {
				mb.Text("", "Calories: "+s)
			}
			mb.Text("", prepLine(meal))
			if s, ok := mealStepsField.String(meal); ok {
				mb.Text("", "Instructions: "+s)
			}
		})
	}
}

// kcal returns the calories value, adding the unit only to bare numbers
func kcal(rec record.Record) string {
	s, _ := caloriesField.String(rec)
	if _, numeric := caloriesField.Decimal(rec); numeric && s != "" {
		s += " kcal"
	}
	return s
}

// slotMeals collects meals keyed by slot name ("breakfast", "lunch", ...)
func slotMeals(day record.Record) (record.Group, bool) {
	var meals []any
	for _, slot := range mealSlots {
		v, ok := day.Get(slot)
		if !ok {
			continue
		}
		name := record.Title(slot)
		if nested, isRecord := record.FromAny(v); isRecord {
			if !mealNameField.Present(nested) {
				nested = nested.With("name", name)
			}
			meals = append(meals, map[string]any(nested))
			continue
		}
		if s, isString := v.(string); isString {
			meals = append(meals, map[string]any{"name": name, "description": s})
			continue
		}
		meals = append(meals, map[string]any{"name": name, "foods": v})
	}
	return record.NewGroup(meals)
}

// mealHeading returns "Name (time)", defaulting the name to "Meal N"
func mealHeading(meal record.Record, index int) string {
	name := mealNameField.StringOr(meal, "Meal "+strconv.Itoa(index+1))
	if t, ok := mealTimeField.String(meal); ok {
		return name + " (" + t + ")"
	}
	return name
}

// prepLine renders "Prep: X · Cook: Y" from whichever parts are present
func prepLine(meal record.Record) string {
	var parts []string
	if s, ok := prepTimeField.String(meal); ok {
		parts = append(parts, "Prep: "+s)
	}
	if s, ok := cookTimeField.String(meal); ok {
		parts = append(parts, "Cook: "+s)
	}
	return strings.Join(parts, " · ")
}

// macroRows orders well known nutrients first and the rest by key
func macroRows(macros record.Record) [][]string {
	seen := make(map[string]bool, len(macros))
	var rows [][]string
	add := func(key string) {
		seen[key] = true
		if s := record.DisplayString(macros[key]); s != "" {
			rows = append(rows, []string{record.Title(key), s})
		}
	}
	for _, key := range macroOrder {
		if _, ok := macros[key]; ok {
			add(key)
		}
	}
	rest := make([]string, 0, len(macros))
	for key := range macros {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return rows
}

// groceryBucket is one category of the grocery list
type groceryBucket struct {
	name  string
	items []string
}

// groceries partitions the grocery list by category and emits one heading
// plus list per category under a "Grocery List" heading. Categories keep
// their first appearance order; uncategorized items go to "Other", last.
func (a *MealPlanAdapter) groceries(b *document.Builder, rec record.Record) {
	raw, ok := groceryGroup.Lookup(rec)
	if !ok {
		return
	}
	g, ok := record.NewGroup(raw)
	if !ok {
		return
	}
	_, byCategory := record.FromAny(raw)

	var buckets []*groceryBucket
	index := make(map[string]*groceryBucket)
	add := func(category, item string) {
		if item == "" {
			return
		}
		bucket, ok := index[category]
		if !ok {
			bucket = &groceryBucket{name: category}
			index[category] = bucket
			buckets = append(buckets, bucket)
		}
		bucket.items = append(bucket.items, item)
	}

	for _, it := range g.Items() {
		if byCategory {
			if sub, ok := (record.Field{"items"}).Group(it.Record); ok {
				category := record.Field{"name"}.StringOr(it.Record, otherCategory)
				for _, subItem := range sub.Items() {
					add(category, groceryItem(subItem))
				}
				continue
			}
		}
		category := otherCategory
		if !it.Plain() {
			category = groceryCategoryField.StringOr(it.Record, otherCategory)
		}
		add(category, groceryItem(it))
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].name != otherCategory && buckets[j].name == otherCategory
	})

	b.Group("Grocery List", func(gb *document.Builder) {
		for _, bucket := range buckets {
			gb.List(bucket.name, bucket.items)
		}
	})
}

// groceryItem renders "name (quantity)" or just the name
func groceryItem(it record.Item) string {
	if it.Plain() {
		return it.Text
	}
	name, ok := groceryNameField.String(it.Record)
	if !ok {
		return ""
	}
	if qty, ok := groceryQtyField.String(it.Record); ok {
		return name + " (" + qty + ")"
	}
	return name
}
