package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/auth"
	"github.com/samy1995/Mealwise/internal/db"
	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/samy1995/Mealwise/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "mealwise.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqlite.New(sqldb)
}

func testMeal(id, userID string, at time.Time) model.MealLog {
	fiber := 2.5
	return model.MealLog{
		ID:     id,
		UserID: userID,
		Date:   at,
		Type:   model.MealTypeMeal,
		Source: model.SourceHome,
		Foods: []model.FoodItem{{
			Name:          "Rice",
			Quantity:      "1 cup",
			Confidence:    0.9,
			NutritionInfo: model.NutritionInfo{Calories: 200, Protein: 4, Fat: 1, Carbs: 44, Fiber: &fiber},
		}},
		Totals:     model.NutritionInfo{Calories: 200, Protein: 4, Fat: 1, Carbs: 44, Fiber: &fiber},
		Confidence: 0.9,
	}
}

func TestSaveMealRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 4, 12, 30, 15, 250*int(time.Millisecond), time.UTC)

	in := testMeal("m1", "u1", at)
	in.Source = model.SourceOrdered
	in.RestaurantName = "Dishoom"
	in.DrinkPairings = []string{"Chai"}
	in.Notes = "shared"
	got, err := s.SaveMeal(ctx, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !got.Date.Equal(at) {
		t.Fatalf("expected %s, got %s", at, got.Date)
	}
	if got.Type != model.MealTypeMeal || got.Source != model.SourceOrdered || got.RestaurantName != "Dishoom" {
		t.Fatalf("unexpected kind fields %+v", got)
	}
	if len(got.Foods) != 1 || got.Foods[0].FiberValue() != 2.5 || got.Totals.SugarValue() != 0 {
		t.Fatalf("unexpected nutrition %+v", got)
	}
	if len(got.DrinkPairings) != 1 || got.Notes != "shared" {
		t.Fatalf("unexpected extras %+v", got)
	}
}

func TestListMealsPagesNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := s.SaveMeal(ctx, testMeal(fmt.Sprintf("m%d", i), "u1", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := s.SaveMeal(ctx, testMeal("other", "u2", base.Add(10*time.Hour))); err != nil {
		t.Fatalf("save other user: %v", err)
	}

	page0, err := s.ListMeals(ctx, "u1", service.MealQuery{Page: 0, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	page2, err := s.ListMeals(ctx, "u1", service.MealQuery{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page0) != 2 || page0[0].ID != "m4" || page0[1].ID != "m3" {
		t.Fatalf("unexpected first page %+v", page0)
	}
	if len(page2) != 1 || page2[0].ID != "m0" {
		t.Fatalf("unexpected last page %+v", page2)
	}
}

func TestListMealsSinceIsInclusive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	for id, at := range map[string]string{
		"feb":   "2026-02-28T23:59:59Z",
		"start": "2026-03-01T00:00:00Z",
		"mid":   "2026-03-15T09:00:00Z",
	} {
		ts, _ := time.Parse(time.RFC3339, at)
		if _, err := s.SaveMeal(ctx, testMeal(id, "u1", ts)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	got, err := s.ListMeals(ctx, "u1", service.MealQuery{SinceISO: "2026-03-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "mid" || got[1].ID != "start" {
		t.Fatalf("expected mid and start, got %+v", got)
	}
	if _, err := s.ListMeals(ctx, "u1", service.MealQuery{SinceISO: "March"}); err == nil {
		t.Fatalf("expected error for invalid since")
	}
}

func TestDeleteMealIsScopedToOwner(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.SaveMeal(ctx, testMeal("m1", "u1", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteMeal(ctx, "u2", "m1"); !errors.Is(err, service.ErrMealNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
	if err := s.DeleteMeal(ctx, "u1", "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteMeal(ctx, "u1", "m1"); !errors.Is(err, service.ErrMealNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSaveMealRejectsNegativeTotals(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	m := testMeal("m1", "u1", time.Now())
	m.Totals.Calories = -5
	if _, err := s.SaveMeal(context.Background(), m); err == nil {
		t.Fatalf("expected check constraint failure")
	}
}

func TestProfileUpsertAndPatch(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, "u1"); !errors.Is(err, service.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
	if err := s.UpsertProfile(ctx, model.Profile{ID: "u1", Email: "a@b.test", Allergens: []string{"Milk", "milk"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p, err := s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.DietPreference != service.DefaultDiet || len(p.Allergens) != 1 || p.Allergens[0] != "milk" {
		t.Fatalf("unexpected profile %+v", p)
	}

	dob := "1992-08-30"
	updated, err := s.UpdateProfile(ctx, "u1", service.ProfilePatch{DateOfBirth: &dob})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DateOfBirth != dob || updated.Email != "a@b.test" || len(updated.Allergens) != 1 {
		t.Fatalf("expected patch to keep other fields, got %+v", updated)
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	u := model.User{ID: "u1", Email: "a@b.test", PasswordHash: "hash"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateUser(ctx, model.User{ID: "u2", Email: "a@b.test", PasswordHash: "x"}); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	got, err := s.UserByEmail(ctx, "a@b.test")
	if err != nil || got.ID != "u1" {
		t.Fatalf("expected u1, got %+v %v", got, err)
	}
	if _, err := s.UserByID(ctx, "missing"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
