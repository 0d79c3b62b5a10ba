package service

import (
	"fmt"

	"github.com/samy1995/Mealwise/internal/model"
)

// Aggregate sums nutrition across items. Missing fiber and sugar count as
// zero, and the result always carries both.
func Aggregate(items []model.FoodItem) model.NutritionInfo {
	total := zeroNutrition()
	for _, item := range items {
		total = AddNutrition(total, item.NutritionInfo)
	}
	return total
}

func AddNutrition(a, b model.NutritionInfo) model.NutritionInfo {
	return model.NutritionInfo{
		Calories: a.Calories + b.Calories,
		Protein:  a.Protein + b.Protein,
		Fat:      a.Fat + b.Fat,
		Carbs:    a.Carbs + b.Carbs,
		Fiber:    floatPtr(a.FiberValue() + b.FiberValue()),
		Sugar:    floatPtr(a.SugarValue() + b.SugarValue()),
	}
}

func SubtractNutrition(a, b model.NutritionInfo) model.NutritionInfo {
	return model.NutritionInfo{
		Calories: a.Calories - b.Calories,
		Protein:  a.Protein - b.Protein,
		Fat:      a.Fat - b.Fat,
		Carbs:    a.Carbs - b.Carbs,
		Fiber:    floatPtr(a.FiberValue() - b.FiberValue()),
		Sugar:    floatPtr(a.SugarValue() - b.SugarValue()),
	}
}

// MeanConfidence is the arithmetic mean of item confidences, 0 for no items.
func MeanConfidence(items []model.FoodItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.Confidence
	}
	return sum / float64(len(items))
}

func ValidateFoodItem(item model.FoodItem) error {
	if normalizeName(item.Name) == "" {
		return newValidationError("name", "food name is required")
	}
	if item.Confidence < 0 || item.Confidence > 1 {
		return newValidationError("confidence", "must be between 0 and 1, got %v", item.Confidence)
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"calories", item.Calories},
		{"protein", item.Protein},
		{"fat", item.Fat},
		{"carbs", item.Carbs},
		{"fiber", item.FiberValue()},
		{"sugar", item.SugarValue()},
	}
	for _, c := range checks {
		if err := validateNonNegativeFloat(c.name, c.value); err != nil {
			return err
		}
	}
	return nil
}

// MealDraft is a meal being assembled from detections and manual entries.
// Totals are kept in step with Foods on every change.
type MealDraft struct {
	Foods  []model.FoodItem
	Totals model.NutritionInfo
}

func NewMealDraft(items ...model.FoodItem) *MealDraft {
	d := &MealDraft{Totals: zeroNutrition()}
	d.Append(items...)
	return d
}

func (d *MealDraft) Append(items ...model.FoodItem) {
	for _, item := range items {
		d.Foods = append(d.Foods, item)
		d.Totals = AddNutrition(d.Totals, item.NutritionInfo)
	}
}

func (d *MealDraft) Remove(index int) (model.FoodItem, error) {
	if index < 0 || index >= len(d.Foods) {
		return model.FoodItem{}, fmt.Errorf("item index %d out of range (0-%d)", index, len(d.Foods)-1)
	}
	removed := d.Foods[index]
	d.Foods = append(d.Foods[:index:index], d.Foods[index+1:]...)
	if len(d.Foods) == 0 {
		d.Totals = zeroNutrition()
	} else {
		d.Totals = SubtractNutrition(d.Totals, removed.NutritionInfo)
	}
	return removed, nil
}

func (d *MealDraft) Empty() bool {
	return len(d.Foods) == 0
}

func (d *MealDraft) Confidence() float64 {
	return MeanConfidence(d.Foods)
}

func zeroNutrition() model.NutritionInfo {
	return model.NutritionInfo{Fiber: floatPtr(0), Sugar: floatPtr(0)}
}
