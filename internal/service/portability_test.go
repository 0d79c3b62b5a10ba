package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func TestExportImportSnapshot(t *testing.T) {
	ctx := context.Background()
	src := &memoryMeals{}
	base := mustTime(t, "2026-02-01T08:00:00Z")
	for i := 0; i < 105; i++ {
		m := model.MealLog{
			ID:     fmt.Sprintf("m%03d", i),
			UserID: "u1",
			Date:   base.Add(time.Duration(i) * time.Hour),
			Type:   model.MealTypeMeal,
			Source: model.SourceHome,
			Foods:  []model.FoodItem{item("Rice", float64(100+i), 2, 1, 20, 0.9)},
		}
		m.Totals = service.Aggregate(m.Foods)
		src.meals = append(src.meals, m)
	}
	profiles := newMemoryProfiles()
	profiles.profiles["u1"] = model.Profile{ID: "u1", Email: "a@b.test"}

	data, err := service.ExportSnapshot(ctx, src, profiles, "u1", base)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data.Meals) != 105 || data.Profile.Email != "a@b.test" {
		t.Fatalf("expected all pages exported, got %d meals", len(data.Meals))
	}

	dst := &memoryMeals{meals: []model.MealLog{src.meals[0]}}
	dst.meals[0].UserID = "u2"
	dry, err := service.ImportSnapshot(ctx, dst, "u2", data, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Imported != 104 || dry.Skipped != 1 || len(dst.meals) != 1 {
		t.Fatalf("unexpected dry run %+v with %d stored", dry, len(dst.meals))
	}
	report, err := service.ImportSnapshot(ctx, dst, "u2", data, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 104 || len(dst.meals) != 105 {
		t.Fatalf("unexpected import %+v with %d stored", report, len(dst.meals))
	}
	for _, m := range dst.meals[1:] {
		if m.UserID != "u2" {
			t.Fatalf("imported meal kept foreign owner: %+v", m)
		}
	}
}

func TestWriteMealsCSV(t *testing.T) {
	var buf bytes.Buffer
	m := model.MealLog{
		ID:     "m1",
		Date:   mustTime(t, "2026-02-01T08:00:00Z"),
		Type:   model.MealTypeMeal,
		Source: model.SourceOrdered,
		Foods:  []model.FoodItem{{Name: "Pho"}, {Name: "Spring Roll"}},
		Totals: model.NutritionInfo{Calories: 640.5},
		Notes:  "with, commas",
	}
	if err := service.WriteMealsCSV(&buf, []model.MealLog{m}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 || records[1][5] != "Pho; Spring Roll" || records[1][6] != "640.5" || records[1][13] != "with, commas" {
		t.Fatalf("unexpected csv %v", records)
	}
}
