package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var (
		p             model.Profile
		allergensJSON string
		updatedAt     sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, `
SELECT id, email, first_name, last_name, phone, country_region, diet_preference, allergens_json, date_of_birth, updated_at
FROM profiles WHERE id = ?`, userID).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.CountryRegion,
		&p.DietPreference, &allergensJSON, &p.DateOfBirth, &updatedAt)
	if err == sql.ErrNoRows {
		return model.Profile{}, service.ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	allergens, err := unmarshalStrings(allergensJSON)
	if err != nil {
		return model.Profile{}, fmt.Errorf("decode allergens: %w", err)
	}
	p.Allergens = allergens
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p model.Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if p.DietPreference == "" {
		p.DietPreference = service.DefaultDiet
	}
	allergens := service.NormalizeAllergens(p.Allergens)
	allergensJSON, err := marshalJSON(allergens)
	if err != nil {
		return fmt.Errorf("encode allergens: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
INSERT INTO profiles(id, email, first_name, last_name, phone, country_region, diet_preference, allergens_json, date_of_birth, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  email=excluded.email,
  first_name=excluded.first_name,
  last_name=excluded.last_name,
  phone=excluded.phone,
  country_region=excluded.country_region,
  diet_preference=excluded.diet_preference,
  allergens_json=excluded.allergens_json,
  date_of_birth=excluded.date_of_birth,
  updated_at=excluded.updated_at
`, p.ID, p.Email, p.FirstName, p.LastName, p.Phone, p.CountryRegion, p.DietPreference, allergensJSON, p.DateOfBirth)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, patch service.ProfilePatch) (model.Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	next := patch.Apply(current)
	if err := s.UpsertProfile(ctx, next); err != nil {
		return model.Profile{}, err
	}
	return s.GetProfile(ctx, userID)
}
