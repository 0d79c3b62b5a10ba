package service_test

import (
	"testing"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func TestBuildFallbackReportNeverRepeatsLastPlan(t *testing.T) {
	meals := threeMealsIn(t, "2026-03")
	first := service.BuildFallbackReport("2026-03", meals, "")
	second := service.BuildFallbackReport("2026-03", meals, first.ActionPlan)
	if second.ActionPlan == first.ActionPlan {
		t.Fatalf("expected a different plan than %q", first.ActionPlan)
	}
	again := service.BuildFallbackReport("2026-03", meals, "")
	if again.ActionPlan != first.ActionPlan {
		t.Fatalf("expected a stable pick, got %q then %q", first.ActionPlan, again.ActionPlan)
	}
}

func TestBuildFallbackReportShape(t *testing.T) {
	r := service.BuildFallbackReport("2026-03", threeMealsIn(t, "2026-03"), "")
	if !service.ValidReport(r) {
		t.Fatalf("expected a valid report, got %+v", r)
	}
	if r.SourceDistribution != (model.SourceDistribution{Home: 2, Ordered: 1}) {
		t.Fatalf("unexpected sources %+v", r.SourceDistribution)
	}
	if r.ConsistencyScore != 0.25 {
		t.Fatalf("expected floor consistency 0.25, got %v", r.ConsistencyScore)
	}
	if len(r.Patterns) != 2 || r.Patterns[0] != "Home meals made up about 67% of your logs." {
		t.Fatalf("unexpected patterns %v", r.Patterns)
	}
	if r.MacroDistribution != service.MacroSplit(threeMealsIn(t, "2026-03")) {
		t.Fatalf("expected local macro split, got %+v", r.MacroDistribution)
	}
}

func TestValidReport(t *testing.T) {
	r := validReport("Try: more beans.")
	if !service.ValidReport(r) {
		t.Fatalf("expected valid report")
	}
	r.ConsistencyScore = 1.2
	if service.ValidReport(r) {
		t.Fatalf("expected score above 1 to be rejected")
	}
	if service.ValidReport(model.MonthlyReport{}) {
		t.Fatalf("expected empty report to be rejected")
	}
}
