package service_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/db"
	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mealwise.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func ptr[T any](v T) *T { return &v }

func item(name string, cal, protein, fat, carbs float64, confidence float64) model.FoodItem {
	return model.FoodItem{
		Name:          name,
		Quantity:      "1 serving",
		Confidence:    confidence,
		NutritionInfo: model.NutritionInfo{Calories: cal, Protein: protein, Fat: fat, Carbs: carbs},
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

// memoryMeals is an in-memory MealStore ordered newest first.
type memoryMeals struct {
	meals   []model.MealLog
	queries []service.MealQuery
	failN   int
	failErr error
	calls   int
}

func (m *memoryMeals) SaveMeal(ctx context.Context, meal model.MealLog) (model.MealLog, error) {
	m.calls++
	if m.failN > 0 {
		m.failN--
		return model.MealLog{}, m.failErr
	}
	m.meals = append(m.meals, meal)
	return meal, nil
}

func (m *memoryMeals) ListMeals(ctx context.Context, userID string, q service.MealQuery) ([]model.MealLog, error) {
	m.calls++
	m.queries = append(m.queries, q)
	if m.failN > 0 {
		m.failN--
		return nil, m.failErr
	}
	q = q.Normalize()
	var since time.Time
	if q.SinceISO != "" {
		s, err := time.Parse(time.RFC3339, q.SinceISO)
		if err != nil {
			return nil, err
		}
		since = s
	}
	var out []model.MealLog
	for _, meal := range m.meals {
		if meal.UserID != userID || meal.Date.Before(since) {
			continue
		}
		out = append(out, meal)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	start := q.Offset()
	if start >= len(out) {
		return nil, nil
	}
	end := start + q.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (m *memoryMeals) DeleteMeal(ctx context.Context, userID, mealID string) error {
	m.calls++
	for i, meal := range m.meals {
		if meal.ID == mealID && meal.UserID == userID {
			m.meals = append(m.meals[:i], m.meals[i+1:]...)
			return nil
		}
	}
	return service.ErrMealNotFound
}

type memoryProfiles struct {
	profiles map[string]model.Profile
	getErr   error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: map[string]model.Profile{}}
}

func (m *memoryProfiles) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if m.getErr != nil {
		return model.Profile{}, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return model.Profile{}, service.ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryProfiles) UpsertProfile(ctx context.Context, p model.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *memoryProfiles) UpdateProfile(ctx context.Context, userID string, patch service.ProfilePatch) (model.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return model.Profile{}, service.ErrProfileNotFound
	}
	p = patch.Apply(p)
	m.profiles[userID] = p
	return p, nil
}

// stubAnalyzer records monthly requests and returns canned responses.
type stubAnalyzer struct {
	foods       []model.FoodItem
	ingredients []string
	recipes     []model.Recipe
	recipeReq   service.RecipeRequest
	reports     []model.MonthlyReport
	reportErr   error
	lastPlans   []string
	text        string
	err         error

	image        string
	imagePrompts []string
}

func (s *stubAnalyzer) DetectFood(ctx context.Context, image string) ([]model.FoodItem, error) {
	return s.foods, s.err
}

func (s *stubAnalyzer) CalculateNutrition(ctx context.Context, text string) ([]model.FoodItem, error) {
	s.text = text
	return s.foods, s.err
}

func (s *stubAnalyzer) DetectIngredients(ctx context.Context, image string) ([]string, error) {
	return s.ingredients, s.err
}

func (s *stubAnalyzer) GenerateRecipes(ctx context.Context, req service.RecipeRequest) ([]model.Recipe, error) {
	s.recipeReq = req
	return s.recipes, s.err
}

func (s *stubAnalyzer) GenerateFoodImage(ctx context.Context, prompt string) (string, error) {
	s.imagePrompts = append(s.imagePrompts, prompt)
	if s.image == "" {
		return "", errors.New("image generation unavailable")
	}
	return s.image, nil
}

func (s *stubAnalyzer) AnalyzeMonthlyBehavior(ctx context.Context, meals []model.MealLog, last string) (model.MonthlyReport, error) {
	s.lastPlans = append(s.lastPlans, last)
	if s.reportErr != nil {
		return model.MonthlyReport{}, s.reportErr
	}
	if len(s.reports) == 0 {
		return model.MonthlyReport{}, errors.New("no canned report")
	}
	r := s.reports[0]
	if len(s.reports) > 1 {
		s.reports = s.reports[1:]
	}
	return r, nil
}
