package service

import (
	"context"

	"github.com/samy1995/Mealwise/internal/model"
)

const DefaultMealPageSize = 100

// MealQuery pages through a user's meals, newest first. SinceISO is an
// inclusive lower bound on the logged instant.
type MealQuery struct {
	Page     int
	PageSize int
	SinceISO string
}

func (q MealQuery) Normalize() MealQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultMealPageSize
	}
	return q
}

func (q MealQuery) Offset() int {
	q = q.Normalize()
	return q.Page * q.PageSize
}

type MealStore interface {
	SaveMeal(ctx context.Context, meal model.MealLog) (model.MealLog, error)
	ListMeals(ctx context.Context, userID string, q MealQuery) ([]model.MealLog, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error
}

// ProfilePatch carries only the fields being changed.
type ProfilePatch struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	CountryRegion  *string
	DietPreference *string
	Allergens      *[]string
	DateOfBirth    *string
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.CountryRegion == nil &&
		p.DietPreference == nil && p.Allergens == nil && p.DateOfBirth == nil
}

func (p ProfilePatch) Apply(profile model.Profile) model.Profile {
	if p.FirstName != nil {
		profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = *p.LastName
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.CountryRegion != nil {
		profile.CountryRegion = *p.CountryRegion
	}
	if p.DietPreference != nil {
		profile.DietPreference = *p.DietPreference
	}
	if p.Allergens != nil {
		profile.Allergens = NormalizeAllergens(*p.Allergens)
	}
	if p.DateOfBirth != nil {
		profile.DateOfBirth = *p.DateOfBirth
	}
	return profile
}

type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound when the row is missing.
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpsertProfile(ctx context.Context, profile model.Profile) error
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (model.Profile, error)
}

type RecipeRequest struct {
	Ingredients    []string `json:"ingredients"`
	DietPreference string   `json:"dietPreference"`
	Allergens      []string `json:"allergens"`
}

// Analyzer is the generative model endpoint. Images are data URLs.
type Analyzer interface {
	DetectFood(ctx context.Context, imageDataURL string) ([]model.FoodItem, error)
	CalculateNutrition(ctx context.Context, text string) ([]model.FoodItem, error)
	DetectIngredients(ctx context.Context, imageDataURL string) ([]string, error)
	GenerateRecipes(ctx context.Context, req RecipeRequest) ([]model.Recipe, error)
	GenerateFoodImage(ctx context.Context, prompt string) (string, error)
	AnalyzeMonthlyBehavior(ctx context.Context, meals []model.MealLog, lastActionPlan string) (model.MonthlyReport, error)
}

type ImageUploader interface {
	UploadImage(ctx context.Context, userID, dataURL string) (string, error)
}

// RetryingMealStore retries transient MealStore failures.
type RetryingMealStore struct {
	Next    MealStore
	Retrier *Retrier
}

func (s RetryingMealStore) SaveMeal(ctx context.Context, meal model.MealLog) (model.MealLog, error) {
	var out model.MealLog
	err := s.Retrier.Do(ctx, "save meal", func(ctx context.Context) error {
		var err error
		out, err = s.Next.SaveMeal(ctx, meal)
		return err
	})
	return out, err
}

func (s RetryingMealStore) ListMeals(ctx context.Context, userID string, q MealQuery) ([]model.MealLog, error) {
	var out []model.MealLog
	err := s.Retrier.Do(ctx, "list meals", func(ctx context.Context) error {
		var err error
		out, err = s.Next.ListMeals(ctx, userID, q)
		return err
	})
	return out, err
}

func (s RetryingMealStore) DeleteMeal(ctx context.Context, userID, mealID string) error {
	return s.Retrier.Do(ctx, "delete meal", func(ctx context.Context) error {
		return s.Next.DeleteMeal(ctx, userID, mealID)
	})
}

// RetryingProfileStore retries transient ProfileStore failures.
type RetryingProfileStore struct {
	Next    ProfileStore
	Retrier *Retrier
}

func (s RetryingProfileStore) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var out model.Profile
	err := s.Retrier.Do(ctx, "get profile", func(ctx context.Context) error {
		var err error
		out, err = s.Next.GetProfile(ctx, userID)
		return err
	})
	return out, err
}

func (s RetryingProfileStore) UpsertProfile(ctx context.Context, profile model.Profile) error {
	return s.Retrier.Do(ctx, "upsert profile", func(ctx context.Context) error {
		return s.Next.UpsertProfile(ctx, profile)
	})
}

func (s RetryingProfileStore) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (model.Profile, error) {
	var out model.Profile
	err := s.Retrier.Do(ctx, "update profile", func(ctx context.Context) error {
		var err error
		out, err = s.Next.UpdateProfile(ctx, userID, patch)
		return err
	})
	return out, err
}
