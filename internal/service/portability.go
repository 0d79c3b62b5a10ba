package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samy1995/Mealwise/internal/model"
)

const exportVersion = 1

// ExportData is a user's profile and full meal history.
type ExportData struct {
	Version    int             `json:"version"`
	ExportedAt string          `json:"exportedAt"`
	Profile    model.Profile   `json:"profile"`
	Meals      []model.MealLog `json:"meals"`
}

type ImportReport struct {
	Imported int  `json:"imported"`
	Skipped  int  `json:"skipped"`
	DryRun   bool `json:"dryRun,omitempty"`
}

// AllMeals pages through every meal of a user, newest first.
func AllMeals(ctx context.Context, meals MealStore, userID string) ([]model.MealLog, error) {
	return MealsSince(ctx, meals, userID, "")
}

// MealsSince pages through the meals logged at or after sinceISO until a
// short page, newest first.
func MealsSince(ctx context.Context, meals MealStore, userID, sinceISO string) ([]model.MealLog, error) {
	var out []model.MealLog
	for page := 0; ; page++ {
		batch, err := meals.ListMeals(ctx, userID, MealQuery{Page: page, PageSize: DefaultMealPageSize, SinceISO: sinceISO})
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < DefaultMealPageSize {
			return out, nil
		}
	}
}

func ExportSnapshot(ctx context.Context, meals MealStore, profiles ProfileStore, userID string, now time.Time) (*ExportData, error) {
	profile, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export profile: %w", err)
	}
	all, err := AllMeals(ctx, meals, userID)
	if err != nil {
		return nil, fmt.Errorf("export meals: %w", err)
	}
	if all == nil {
		all = []model.MealLog{}
	}
	return &ExportData{
		Version:    exportVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Profile:    profile,
		Meals:      all,
	}, nil
}

var csvHeader = []string{"id", "logged_at", "type", "source", "restaurant", "foods", "calories", "protein", "fat", "carbs", "fiber", "sugar", "confidence", "notes"}

// WriteMealsCSV writes one row per meal with item names joined by "; ".
func WriteMealsCSV(w io.Writer, meals []model.MealLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	for _, m := range meals {
		names := make([]string, 0, len(m.Foods))
		for _, f := range m.Foods {
			names = append(names, f.Name)
		}
		record := []string{
			m.ID,
			m.Date.UTC().Format(time.RFC3339),
			string(m.Type),
			string(m.Source),
			m.RestaurantName,
			strings.Join(names, "; "),
			formatFloat(m.Totals.Calories),
			formatFloat(m.Totals.Protein),
			formatFloat(m.Totals.Fat),
			formatFloat(m.Totals.Carbs),
			formatFloat(m.Totals.FiberValue()),
			formatFloat(m.Totals.SugarValue()),
			formatFloat(m.Confidence),
			m.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportSnapshot saves exported meals under userID with fresh ids. A meal
// already present at the same instant with the same kind and calories is
// skipped.
func ImportSnapshot(ctx context.Context, meals MealStore, userID string, data *ExportData, dryRun bool) (ImportReport, error) {
	report := ImportReport{DryRun: dryRun}
	if data == nil {
		return report, fmt.Errorf("import data is required")
	}
	if data.Version > exportVersion {
		return report, fmt.Errorf("unsupported export version %d", data.Version)
	}
	existing, err := AllMeals(ctx, meals, userID)
	if err != nil {
		return report, fmt.Errorf("load existing meals: %w", err)
	}
	seen := map[string]bool{}
	for _, m := range existing {
		seen[importKey(m)] = true
	}
	for i, m := range data.Meals {
		if seen[importKey(m)] {
			report.Skipped++
			continue
		}
		for j, item := range m.Foods {
			if err := ValidateFoodItem(item); err != nil {
				return report, fmt.Errorf("meal %d item %d: %w", i, j, err)
			}
		}
		seen[importKey(m)] = true
		report.Imported++
		if dryRun {
			continue
		}
		m.ID = uuid.NewString()
		m.UserID = userID
		m.Totals = Aggregate(m.Foods)
		if _, err := meals.SaveMeal(ctx, m); err != nil {
			return report, fmt.Errorf("import meal %s: %w", m.ID, err)
		}
	}
	return report, nil
}

func importKey(m model.MealLog) string {
	return fmt.Sprintf("%d|%s|%.0f", m.Date.UTC().UnixMilli(), StoredMealType(m), Aggregate(m.Foods).Calories)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
