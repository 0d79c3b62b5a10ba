package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samy1995/Mealwise/internal/logger"
	"github.com/samy1995/Mealwise/internal/model"
)

// Stored meal_type values.
const (
	StoredEat     = "Eat"
	StoredCooked  = "Cooked"
	StoredOrdered = "Ordered"
)

// StoredMealType maps a meal to its persisted meal_type.
func StoredMealType(m model.MealLog) string {
	switch {
	case m.Type == model.MealTypeRecipe:
		return StoredCooked
	case m.Source == model.SourceOrdered:
		return StoredOrdered
	default:
		return StoredEat
	}
}

// MealKindFromStored is the inverse of StoredMealType.
func MealKindFromStored(mealType string) (model.MealType, model.MealSource) {
	switch mealType {
	case StoredCooked:
		return model.MealTypeRecipe, model.SourceHome
	case StoredOrdered:
		return model.MealTypeMeal, model.SourceOrdered
	default:
		return model.MealTypeMeal, model.SourceHome
	}
}

type SaveMealInput struct {
	Type           model.MealType
	Source         model.MealSource
	RestaurantName string
	// Image is an http(s) URL, a data URL or bare base64 JPEG data.
	Image         string
	DrinkPairings []string
	Notes         string
	// Confidence overrides the mean item confidence when set.
	Confidence *float64
	LoggedAt   time.Time
}

// MealLogger turns a draft into a persisted MealLog.
type MealLogger struct {
	Meals  MealStore
	Images ImageUploader
	Now    func() time.Time
	Log    *logger.Logger
}

func (l *MealLogger) Save(ctx context.Context, userID string, draft *MealDraft, in SaveMealInput) (model.MealLog, error) {
	if userID == "" {
		return model.MealLog{}, ErrNotAuthenticated
	}
	if draft == nil || draft.Empty() {
		return model.MealLog{}, ErrEmptyMeal
	}
	for i, item := range draft.Foods {
		if err := ValidateFoodItem(item); err != nil {
			return model.MealLog{}, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if in.Type == "" {
		in.Type = model.MealTypeMeal
	}
	if in.Type != model.MealTypeMeal && in.Type != model.MealTypeRecipe {
		return model.MealLog{}, newValidationError("type", "invalid meal type %q", in.Type)
	}
	if in.Type == model.MealTypeRecipe {
		in.Source = model.SourceHome
	}
	if in.Source == "" {
		in.Source = model.SourceHome
	}
	if in.Source != model.SourceHome && in.Source != model.SourceOrdered {
		return model.MealLog{}, newValidationError("source", "invalid source %q (expected home or ordered)", in.Source)
	}
	restaurant := strings.TrimSpace(in.RestaurantName)
	if in.Source != model.SourceOrdered {
		restaurant = ""
	}

	confidence := MeanConfidence(draft.Foods)
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return model.MealLog{}, newValidationError("confidence", "must be between 0 and 1, got %v", confidence)
	}

	loggedAt := in.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = l.now()
	}

	foods := make([]model.FoodItem, len(draft.Foods))
	copy(foods, draft.Foods)
	meal := model.MealLog{
		ID:             uuid.NewString(),
		UserID:         userID,
		Date:           loggedAt.UTC(),
		Type:           in.Type,
		Foods:          foods,
		Totals:         Aggregate(foods),
		Confidence:     confidence,
		ImageURL:       l.resolveImage(ctx, userID, in.Image),
		Source:         in.Source,
		RestaurantName: restaurant,
		DrinkPairings:  in.DrinkPairings,
		Notes:          strings.TrimSpace(in.Notes),
	}
	saved, err := l.Meals.SaveMeal(ctx, meal)
	if err != nil {
		return model.MealLog{}, fmt.Errorf("save meal: %w", err)
	}
	return saved, nil
}

// resolveImage uploads inline image data. On failure the original data is
// kept so the save still goes through.
func (l *MealLogger) resolveImage(ctx context.Context, userID, image string) string {
	image = strings.TrimSpace(image)
	if image == "" || strings.HasPrefix(image, "http") {
		return image
	}
	if !strings.HasPrefix(image, "data:") {
		image = "data:image/jpeg;base64," + image
	}
	if l.Images == nil || !strings.HasPrefix(image, "data:image") {
		return image
	}
	url, err := l.Images.UploadImage(ctx, userID, image)
	if err != nil {
		if l.Log != nil {
			l.Log.Warn("image upload failed, keeping inline image", "user_id", userID, "error", err)
		}
		return image
	}
	return url
}

func (l *MealLogger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// ManualItems asks the analyzer to price free-text food entries.
func ManualItems(ctx context.Context, analyzer Analyzer, text string) ([]model.FoodItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newValidationError("text", "enter at least one food item")
	}
	items, err := analyzer.CalculateNutrition(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("calculate nutrition: %w", err)
	}
	return items, nil
}

// DetectMeal runs photo detection and returns a draft plus allergen warnings.
func DetectMeal(ctx context.Context, analyzer Analyzer, imageDataURL string, allergens []string) (*MealDraft, []string, error) {
	if strings.TrimSpace(imageDataURL) == "" {
		return nil, nil, newValidationError("image", "a meal photo is required")
	}
	items, err := analyzer.DetectFood(ctx, imageDataURL)
	if err != nil {
		return nil, nil, fmt.Errorf("detect food: %w", err)
	}
	return NewMealDraft(items...), MatchAllergens(items, allergens), nil
}
