package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type profileRecord struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Email          string `gorm:"not null"`
	FirstName      string
	LastName       string
	Phone          string
	CountryRegion  string
	DietPreference string `gorm:"not null;default:no_preference"`
	Allergens      string `gorm:"type:jsonb;not null;default:'[]'"`
	DateOfBirth    string
	UpdatedAt      time.Time
}

func (profileRecord) TableName() string { return "profiles" }

type mealRecord struct {
	ID               string  `gorm:"primaryKey;type:uuid"`
	UserID           string  `gorm:"type:uuid;not null;index:idx_meals_user_logged_at,priority:1"`
	MealType         string  `gorm:"not null"`
	Ingredients      string  `gorm:"type:jsonb;not null"`
	Calories         float64 `gorm:"not null"`
	Protein          float64 `gorm:"not null"`
	Fat              float64 `gorm:"not null"`
	Carbs            float64 `gorm:"not null"`
	Fiber            float64 `gorm:"not null;default:0"`
	Sugar            float64 `gorm:"not null;default:0"`
	Confidence       float64 `gorm:"not null;default:0"`
	ImageURL         string
	RestaurantName   string
	DrinkSuggestions string `gorm:"type:jsonb;not null;default:'[]'"`
	Notes            string
	LoggedAt         time.Time `gorm:"not null;index:idx_meals_user_logged_at,priority:2"`
	CreatedAt        time.Time
}

func (mealRecord) TableName() string { return "meals" }

func toMealRecord(m model.MealLog) (mealRecord, error) {
	foods, err := json.Marshal(m.Foods)
	if err != nil {
		return mealRecord{}, fmt.Errorf("encode meal foods: %w", err)
	}
	drinks := m.DrinkPairings
	if drinks == nil {
		drinks = []string{}
	}
	drinksJSON, err := json.Marshal(drinks)
	if err != nil {
		return mealRecord{}, fmt.Errorf("encode drink pairings: %w", err)
	}
	return mealRecord{
		ID:               m.ID,
		UserID:           m.UserID,
		MealType:         service.StoredMealType(m),
		Ingredients:      string(foods),
		Calories:         m.Totals.Calories,
		Protein:          m.Totals.Protein,
		Fat:              m.Totals.Fat,
		Carbs:            m.Totals.Carbs,
		Fiber:            m.Totals.FiberValue(),
		Sugar:            m.Totals.SugarValue(),
		Confidence:       m.Confidence,
		ImageURL:         m.ImageURL,
		RestaurantName:   m.RestaurantName,
		DrinkSuggestions: string(drinksJSON),
		Notes:            m.Notes,
		LoggedAt:         m.Date.UTC(),
	}, nil
}

func (r mealRecord) toModel() (model.MealLog, error) {
	m := model.MealLog{
		ID:     r.ID,
		UserID: r.UserID,
		Date:   r.LoggedAt.UTC(),
		Totals: model.NutritionInfo{
			Calories: r.Calories,
			Protein:  r.Protein,
			Fat:      r.Fat,
			Carbs:    r.Carbs,
			Fiber:    &r.Fiber,
			Sugar:    &r.Sugar,
		},
		Confidence:     r.Confidence,
		ImageURL:       r.ImageURL,
		RestaurantName: r.RestaurantName,
		Notes:          r.Notes,
	}
	m.Type, m.Source = service.MealKindFromStored(r.MealType)
	if r.Ingredients != "" {
		if err := json.Unmarshal([]byte(r.Ingredients), &m.Foods); err != nil {
			return model.MealLog{}, fmt.Errorf("decode meal foods: %w", err)
		}
	}
	m.DrinkPairings = []string{}
	if r.DrinkSuggestions != "" {
		if err := json.Unmarshal([]byte(r.DrinkSuggestions), &m.DrinkPairings); err != nil {
			return model.MealLog{}, fmt.Errorf("decode drink pairings: %w", err)
		}
	}
	return m, nil
}

func toProfileRecord(p model.Profile) (profileRecord, error) {
	allergens, err := json.Marshal(service.NormalizeAllergens(p.Allergens))
	if err != nil {
		return profileRecord{}, fmt.Errorf("encode allergens: %w", err)
	}
	diet := p.DietPreference
	if diet == "" {
		diet = service.DefaultDiet
	}
	return profileRecord{
		ID:             p.ID,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Phone:          p.Phone,
		CountryRegion:  p.CountryRegion,
		DietPreference: diet,
		Allergens:      string(allergens),
		DateOfBirth:    p.DateOfBirth,
	}, nil
}

func (r profileRecord) toModel() (model.Profile, error) {
	p := model.Profile{
		ID:             r.ID,
		Email:          r.Email,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		CountryRegion:  r.CountryRegion,
		DietPreference: r.DietPreference,
		Allergens:      []string{},
		DateOfBirth:    r.DateOfBirth,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Allergens != "" {
		if err := json.Unmarshal([]byte(r.Allergens), &p.Allergens); err != nil {
			return model.Profile{}, fmt.Errorf("decode allergens: %w", err)
		}
	}
	return p, nil
}
