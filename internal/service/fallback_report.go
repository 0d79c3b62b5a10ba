package service

import (
	"fmt"
	"math"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

var fallbackActionPlans = []string{
	"Try: add one easy protein to one meal this week (yogurt, lentils, tofu, or eggs).",
	"Try: add a fruit or handful of nuts twice this week, just to keep it simple.",
	"Try: pick one meal to make “repeatable” this week, so cooking feels easier.",
	"Try: drink a full glass of water before one meal per day for 3 days this week.",
}

const defaultFallbackActionPlan = "Try: keep logging. Consistency wins."

// FallbackFoodImageURL is shown when a recipe or meal image cannot be produced.
const FallbackFoodImageURL = "https://images.unsplash.com/photo-1540189549336-e6e99c3679fe?auto=format&fit=crop&w=800&q=60"

// BuildFallbackReport computes a report locally when analysis is unavailable.
// The action plan never repeats lastActionPlan while another option exists,
// and the pick is stable for the same month and meal count.
func BuildFallbackReport(month string, meals []model.MealLog, lastActionPlan string) model.MonthlyReport {
	total := len(meals)
	var home, ordered int
	for _, m := range meals {
		switch m.Source {
		case model.SourceHome:
			home++
		case model.SourceOrdered:
			ordered++
		}
	}

	summary := "Keep logging. Patterns show up once you have a little more data."
	if total >= MinReportMeals {
		summary = fmt.Sprintf("You logged %d meals this month. That’s consistency, not perfection.", total)
	}

	patterns := make([]string, 0, 2)
	if home+ordered > 0 {
		pct := int(round(float64(home) / float64(home+ordered) * 100))
		patterns = append(patterns, fmt.Sprintf("Home meals made up about %d%% of your logs.", pct))
	}
	patterns = append(patterns, "Your data is building a clearer picture with every meal logged.")

	return model.MonthlyReport{
		Month:              month,
		BehaviorSummary:    summary,
		Patterns:           patterns,
		ActionPlan:         pickFallbackActionPlan(month, total, lastActionPlan),
		MacroDistribution:  MacroSplit(meals),
		SourceDistribution: model.SourceDistribution{Home: home, Ordered: ordered},
		Trends:             []model.Trend{{Label: "Tracked Meals", Value: float64(total), Direction: model.TrendStable}},
		ConsistencyScore:   math.Max(0.25, math.Min(1, float64(total)/30)),
	}
}

func pickFallbackActionPlan(month string, total int, lastActionPlan string) string {
	options := make([]string, 0, len(fallbackActionPlans))
	for _, o := range fallbackActionPlans {
		if o != lastActionPlan {
			options = append(options, o)
		}
	}
	if len(options) == 0 {
		return defaultFallbackActionPlan
	}
	seed := total
	if t, err := time.Parse(monthLayout, month); err == nil {
		seed += t.Year()*12 + int(t.Month())
	}
	return options[seed%len(options)]
}

// ValidReport reports whether an upstream analysis has the full report shape.
func ValidReport(r model.MonthlyReport) bool {
	if r.BehaviorSummary == "" || r.ActionPlan == "" || len(r.Patterns) == 0 {
		return false
	}
	if r.ConsistencyScore < 0 || r.ConsistencyScore > 1 {
		return false
	}
	for _, t := range r.Trends {
		switch t.Direction {
		case model.TrendUp, model.TrendDown, model.TrendStable:
		default:
			return false
		}
	}
	return true
}
