package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func (s *Store) SaveMeal(ctx context.Context, m model.MealLog) (model.MealLog, error) {
	foods, err := marshalJSON(m.Foods)
	if err != nil {
		return model.MealLog{}, fmt.Errorf("encode meal foods: %w", err)
	}
	drinks := m.DrinkPairings
	if drinks == nil {
		drinks = []string{}
	}
	drinksJSON, err := marshalJSON(drinks)
	if err != nil {
		return model.MealLog{}, fmt.Errorf("encode drink pairings: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
INSERT INTO meals(id, user_id, meal_type, ingredients_json, calories, protein, fat, carbs, fiber, sugar,
  confidence, image_url, restaurant_name, drink_suggestions_json, notes, logged_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, m.ID, m.UserID, service.StoredMealType(m), foods,
		m.Totals.Calories, m.Totals.Protein, m.Totals.Fat, m.Totals.Carbs, m.Totals.FiberValue(), m.Totals.SugarValue(),
		m.Confidence, m.ImageURL, m.RestaurantName, drinksJSON, m.Notes, formatInstant(m.Date))
	if err != nil {
		return model.MealLog{}, fmt.Errorf("insert meal: %w", err)
	}
	return s.getMeal(ctx, m.UserID, m.ID)
}

func (s *Store) ListMeals(ctx context.Context, userID string, q service.MealQuery) ([]model.MealLog, error) {
	q = q.Normalize()
	query := `
SELECT id, user_id, meal_type, ingredients_json, calories, protein, fat, carbs, fiber, sugar,
  confidence, image_url, restaurant_name, drink_suggestions_json, notes, logged_at
FROM meals
WHERE user_id = ?`
	args := []any{userID}
	if since := strings.TrimSpace(q.SinceISO); since != "" {
		t, err := time.Parse(time.RFC3339Nano, since)
		if err != nil {
			return nil, fmt.Errorf("invalid since %q (expected ISO-8601): %w", since, err)
		}
		query += ` AND logged_at >= ?`
		args = append(args, formatInstant(t))
	}
	query += ` ORDER BY logged_at DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, q.PageSize, q.Offset())

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	out := []model.MealLog{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteMeal(ctx context.Context, userID, mealID string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM meals WHERE id = ? AND user_id = ?`, mealID, userID)
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", mealID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meal rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("meal %s: %w", mealID, service.ErrMealNotFound)
	}
	return nil
}

func (s *Store) getMeal(ctx context.Context, userID, mealID string) (model.MealLog, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT id, user_id, meal_type, ingredients_json, calories, protein, fat, carbs, fiber, sugar,
  confidence, image_url, restaurant_name, drink_suggestions_json, notes, logged_at
FROM meals WHERE id = ? AND user_id = ?`, mealID, userID)
	return scanMeal(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(sc scanner) (model.MealLog, error) {
	var (
		m            model.MealLog
		mealType     string
		foodsJSON    string
		drinksJSON   string
		loggedAt     string
		fiber, sugar float64
	)
	if err := sc.Scan(&m.ID, &m.UserID, &mealType, &foodsJSON,
		&m.Totals.Calories, &m.Totals.Protein, &m.Totals.Fat, &m.Totals.Carbs, &fiber, &sugar,
		&m.Confidence, &m.ImageURL, &m.RestaurantName, &drinksJSON, &m.Notes, &loggedAt); err != nil {
		return model.MealLog{}, fmt.Errorf("scan meal: %w", err)
	}
	m.Totals.Fiber = &fiber
	m.Totals.Sugar = &sugar
	m.Type, m.Source = service.MealKindFromStored(mealType)
	if err := json.Unmarshal([]byte(foodsJSON), &m.Foods); err != nil {
		return model.MealLog{}, fmt.Errorf("decode meal foods: %w", err)
	}
	drinks, err := unmarshalStrings(drinksJSON)
	if err != nil {
		return model.MealLog{}, fmt.Errorf("decode drink pairings: %w", err)
	}
	m.DrinkPairings = drinks
	t, err := parseInstant(loggedAt)
	if err != nil {
		return model.MealLog{}, err
	}
	m.Date = t
	return m, nil
}
