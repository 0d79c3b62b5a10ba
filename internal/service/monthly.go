package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

// MinReportMeals is the number of meals in a month before stats and
// analysis are shown.
const MinReportMeals = 3

const monthLayout = "2006-01"

type AgeBucket string

const (
	AgeBucketNone   AgeBucket = ""
	AgeBucket18to29 AgeBucket = "18-29"
	AgeBucket30to49 AgeBucket = "30-49"
	AgeBucket50Plus AgeBucket = "50+"
)

var ageInsights = map[AgeBucket]string{
	AgeBucket18to29: "Many people in this range feel best with consistent meals across the day.",
	AgeBucket30to49: "A steady rhythm and a bit more protein earlier can feel more grounding for energy.",
	AgeBucket50Plus: "Many people enjoy simpler, consistent meals that keep energy steady.",
}

type MonthlyStats struct {
	Month        string
	MealCount    int
	HomeCount    int
	OrderedCount int
	TotalMeals   int
	Macros       model.MacroDistribution
	AgeBucket    AgeBucket
	AgeInsight   string
}

func (s MonthlyStats) Eligible() bool {
	return s.MealCount >= MinReportMeals
}

// MealsNeeded is how many more meals unlock the report, 0 once eligible.
func (s MonthlyStats) MealsNeeded() int {
	return MealsNeeded(s.MealCount)
}

func MealsNeeded(count int) int {
	if count >= MinReportMeals {
		return 0
	}
	return MinReportMeals - count
}

// ParseMonth validates a YYYY-MM key.
func ParseMonth(month string) (time.Time, error) {
	month = strings.TrimSpace(month)
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, newValidationError("month", "invalid month %q (expected YYYY-MM)", month)
	}
	return t, nil
}

func CurrentMonth(now time.Time) string {
	return now.Format(monthLayout)
}

func ShiftMonth(month string, offset int) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, offset, 0).Format(monthLayout), nil
}

// MonthStartISO is the inclusive lower bound used to fetch a month.
func MonthStartISO(month string) string {
	return month + "-01T00:00:00Z"
}

// FilterMonth keeps meals whose UTC ISO-8601 timestamp starts with month.
func FilterMonth(meals []model.MealLog, month string) []model.MealLog {
	out := make([]model.MealLog, 0, len(meals))
	for _, m := range meals {
		if strings.HasPrefix(m.Date.UTC().Format(time.RFC3339), month) {
			out = append(out, m)
		}
	}
	return out
}

// DeriveMonthlyStats expects meals already filtered to one month.
func DeriveMonthlyStats(month string, meals []model.MealLog, dateOfBirth string, now time.Time) MonthlyStats {
	stats := MonthlyStats{Month: month, MealCount: len(meals)}
	for _, m := range meals {
		switch m.Source {
		case model.SourceHome:
			stats.HomeCount++
		case model.SourceOrdered:
			stats.OrderedCount++
		}
	}
	stats.TotalMeals = stats.HomeCount + stats.OrderedCount
	stats.Macros = MacroSplit(meals)
	stats.AgeBucket = AgeBucketFor(dateOfBirth, now)
	stats.AgeInsight = AgeInsight(stats.AgeBucket)
	return stats
}

// MacroSplit returns rounded protein/fat/carbs percentages. An all-zero month
// uses a denominator of 1 so every share is 0.
func MacroSplit(meals []model.MealLog) model.MacroDistribution {
	var p, f, c float64
	for _, m := range meals {
		p += m.Totals.Protein
		f += m.Totals.Fat
		c += m.Totals.Carbs
	}
	sum := p + f + c
	if sum == 0 {
		sum = 1
	}
	return model.MacroDistribution{
		Protein: round(p / sum * 100),
		Fat:     round(f / sum * 100),
		Carbs:   round(c / sum * 100),
	}
}

// AgeBucketFor uses plain year subtraction, not calendar age.
func AgeBucketFor(dateOfBirth string, now time.Time) AgeBucket {
	dob, err := parseDateOfBirth(dateOfBirth)
	if err != nil {
		return AgeBucketNone
	}
	age := now.Year() - dob.Year()
	switch {
	case age >= 18 && age <= 29:
		return AgeBucket18to29
	case age >= 30 && age <= 49:
		return AgeBucket30to49
	case age >= 50:
		return AgeBucket50Plus
	default:
		return AgeBucketNone
	}
}

func AgeInsight(bucket AgeBucket) string {
	return ageInsights[bucket]
}

func (s MonthlyStats) String() string {
	return fmt.Sprintf("%s: %d meals (%d home, %d ordered)", s.Month, s.MealCount, s.HomeCount, s.OrderedCount)
}
