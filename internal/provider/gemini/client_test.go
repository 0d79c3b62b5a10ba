package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

func TestDetectFoodSendsBareBase64AndParsesFoods(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action  string            `json:"action"`
			Payload map[string]string `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Action != "detectFood" {
			t.Errorf("unexpected action %q", req.Action)
		}
		if req.Payload["base64Image"] != "AAAA" {
			t.Errorf("expected data URL prefix stripped, got %q", req.Payload["base64Image"])
		}
		if got := r.Header.Get("Authorization"); got != "Bearer anon" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "ok": true,
  "data": {
    "foods": [
      {"name": "Grilled Chicken", "quantity": "150 g", "calories": 240, "protein": 45, "fat": 5, "carbs": 0, "fiber": 0, "sugar": 0, "confidence": 0.92},
      {"name": "Rice", "quantity": "1 cup", "calories": 200, "protein": 4, "fat": 0.5, "carbs": 44, "confidence": 0.8}
    ],
    "summary": {"calories": 440, "protein": 49, "fat": 5.5, "carbs": 44}
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, APIKey: "anon", HTTPClient: ts.Client()}
	foods, err := c.DetectFood(context.Background(), "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("detect food: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}
	if foods[0].Name != "Grilled Chicken" || foods[0].Protein != 45 || foods[0].Confidence != 0.92 {
		t.Fatalf("unexpected first food: %+v", foods[0])
	}
	if foods[1].Sugar != nil {
		t.Fatalf("expected missing sugar to stay nil, got %v", *foods[1].Sugar)
	}
}

func TestCallSurfacesProxyError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"ok": false, "error": "model overloaded"}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.CalculateNutrition(context.Background(), "2 eggs")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected proxy error, got %v", err)
	}
}

func TestCallRejectsNotOKEnvelope(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.GenerateFoodImage(context.Background(), "salad"); err == nil {
		t.Fatalf("expected error for not-ok envelope")
	}
}

func TestAnalyzeMonthlyBehaviorForwardsLastActionPlan(t *testing.T) {
	t.Parallel()

	var got struct {
		Action  string `json:"action"`
		Payload struct {
			Meals []struct {
				Foods  string `json:"foods"`
				Source string `json:"source"`
			} `json:"meals"`
			LastActionPlan string `json:"lastActionPlan"`
		} `json:"payload"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok": true, "data": {
  "behaviorSummary": "A steady month.",
  "patterns": ["Mostly home meals."],
  "actionPlan": "Try: a new vegetable.",
  "macroDistribution": {"protein": 30, "fat": 30, "carbs": 40},
  "sourceDistribution": {"home": 3, "ordered": 1},
  "trends": [{"label": "Tracked Meals", "value": 4, "direction": "up"}],
  "consistencyScore": 0.4
}}`))
	}))
	defer ts.Close()

	meals := []model.MealLog{{
		Date:   time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		Type:   model.MealTypeMeal,
		Source: model.SourceHome,
		Foods:  []model.FoodItem{{Name: "eggs"}, {Name: "toast"}},
	}}
	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	report, err := c.AnalyzeMonthlyBehavior(context.Background(), meals, "Try: drink water.")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.Action != "analyzeMonthlyBehavior" || got.Payload.LastActionPlan != "Try: drink water." {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Payload.Meals) != 1 || got.Payload.Meals[0].Foods != "eggs, toast" || got.Payload.Meals[0].Source != "home" {
		t.Fatalf("unexpected meal summary: %+v", got.Payload.Meals)
	}
	if report.ActionPlan != "Try: a new vegetable." || report.Trends[0].Direction != model.TrendUp {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestMissingBaseURL(t *testing.T) {
	c := &Client{}
	if _, err := c.DetectIngredients(context.Background(), "AAAA"); err == nil {
		t.Fatalf("expected missing URL error")
	}
}
