package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/logger"
	"github.com/samy1995/Mealwise/internal/model"
)

// MonthlyView is everything the memory screen shows for one month.
type MonthlyView struct {
	Stats MonthlyStats
	Meals []model.MealLog
	// Report is nil until the month has MinReportMeals meals.
	Report *model.MonthlyReport
	// Degraded is set when the report was computed locally.
	Degraded bool
}

type MonthlyReporter struct {
	Meals    MealStore
	Analyzer Analyzer
	Cache    ActionPlanCache
	Now      func() time.Time
	Log      *logger.Logger
}

func (r *MonthlyReporter) Load(ctx context.Context, profile model.Profile, month string) (MonthlyView, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return MonthlyView{}, err
	}
	month = start.Format(monthLayout)
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	// Newer months come first in every page, so a past month needs the
	// whole range since its start.
	fetched, err := MealsSince(ctx, r.Meals, profile.ID, MonthStartISO(month))
	if err != nil {
		return MonthlyView{}, fmt.Errorf("load meals for %s: %w", month, err)
	}
	meals := FilterMonth(fetched, month)
	view := MonthlyView{
		Stats: DeriveMonthlyStats(month, meals, profile.DateOfBirth, now),
		Meals: meals,
	}
	if !view.Stats.Eligible() {
		return view, nil
	}

	last, err := r.Cache.Last(profile.ID, month)
	if err != nil {
		return MonthlyView{}, err
	}

	var report model.MonthlyReport
	if r.Analyzer != nil {
		report, err = r.Analyzer.AnalyzeMonthlyBehavior(ctx, meals, last)
	} else {
		err = fmt.Errorf("no analyzer configured")
	}
	if err == nil && ValidReport(report) {
		if err := r.Cache.Remember(profile.ID, month, report.ActionPlan); err != nil {
			return MonthlyView{}, err
		}
	} else {
		if r.Log != nil {
			r.Log.Warn("monthly analysis unavailable, using local report", "month", month, "error", err)
		}
		report = BuildFallbackReport(month, meals, last)
		view.Degraded = true
	}

	report.Month = month
	if view.Stats.AgeInsight != "" {
		report.Insights = append(report.Insights, view.Stats.AgeInsight)
	}
	view.Report = &report
	return view, nil
}

const maxAnalyzedMeals = 60

// AnalyzedMeal is the compact meal form sent for monthly analysis.
type AnalyzedMeal struct {
	Date       string              `json:"date"`
	Type       model.MealType      `json:"type"`
	Source     model.MealSource    `json:"source,omitempty"`
	Restaurant string              `json:"restaurant,omitempty"`
	Foods      string              `json:"foods"`
	Totals     model.NutritionInfo `json:"totals"`
}

// SummarizeForAnalysis keeps the newest 60 meals with food names joined.
func SummarizeForAnalysis(meals []model.MealLog) []AnalyzedMeal {
	if len(meals) > maxAnalyzedMeals {
		meals = meals[:maxAnalyzedMeals]
	}
	out := make([]AnalyzedMeal, 0, len(meals))
	for _, m := range meals {
		names := make([]string, 0, len(m.Foods))
		for _, f := range m.Foods {
			names = append(names, f.Name)
		}
		out = append(out, AnalyzedMeal{
			Date:       m.Date.UTC().Format(time.RFC3339),
			Type:       m.Type,
			Source:     m.Source,
			Restaurant: m.RestaurantName,
			Foods:      strings.Join(names, ", "),
			Totals:     m.Totals,
		})
	}
	return out
}
