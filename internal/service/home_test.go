package service_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func TestRecentWeekStatsCategory(t *testing.T) {
	now := mustTime(t, "2026-06-15T12:00:00Z")
	var meals []model.MealLog
	for i := 0; i < 4; i++ {
		meals = append(meals, model.MealLog{Date: now.Add(-time.Duration(i) * 24 * time.Hour), Source: model.SourceHome})
	}
	meals = append(meals, model.MealLog{Date: now.Add(-10 * 24 * time.Hour), Source: model.SourceOrdered})

	stats := service.RecentWeekStats(meals, now)
	if stats.WeekCount != 4 || stats.HomeRatio != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Category() != service.HomeHomebound {
		t.Fatalf("expected homebound, got %s", stats.Category())
	}

	if got := (service.WeekStats{WeekCount: 6, HomeRatio: 0.9}).Category(); got != service.HomeActive {
		t.Fatalf("expected active to win over homebound, got %s", got)
	}
	if got := (service.WeekStats{WeekCount: 2, HomeRatio: 0.5}).Category(); got != service.HomeDefault {
		t.Fatalf("expected default, got %s", got)
	}
}

func TestHomeMessageIsDeterministicForSeed(t *testing.T) {
	stats := service.WeekStats{WeekCount: 7}
	a := service.HomeMessage(stats, rand.New(rand.NewSource(7)))
	b := service.HomeMessage(stats, rand.New(rand.NewSource(7)))
	if a == "" || a != b {
		t.Fatalf("expected the same message for the same seed, got %q and %q", a, b)
	}
}
