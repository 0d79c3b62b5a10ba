package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samy1995/Mealwise/internal/model"
)

// DietOptions are the accepted diet preference keys.
var DietOptions = []string{
	"no_preference",
	"vegetarian",
	"vegan",
	"eggetarian",
	"non_vegetarian",
	"pescatarian",
	"chicken_eggs_only",
}

const DefaultDiet = "no_preference"

func ValidateDiet(diet string) error {
	for _, d := range DietOptions {
		if d == diet {
			return nil
		}
	}
	return newValidationError("diet", "unknown diet %q (expected one of %s)", diet, strings.Join(DietOptions, ", "))
}

// NormalizeIngredients trims and de-duplicates ingredient names.
func NormalizeIngredients(ingredients []string) ([]string, error) {
	out := make([]string, 0, len(ingredients))
	seen := map[string]bool{}
	for _, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		key := normalizeName(ing)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ing)
	}
	if len(out) == 0 {
		return nil, newValidationError("ingredients", "add at least one ingredient")
	}
	return out, nil
}

// GenerateRecipes asks the analyzer for recipes that respect the profile.
func GenerateRecipes(ctx context.Context, analyzer Analyzer, profile model.Profile, ingredients []string) ([]model.Recipe, error) {
	ingredients, err := NormalizeIngredients(ingredients)
	if err != nil {
		return nil, err
	}
	diet := profile.DietPreference
	if diet == "" {
		diet = DefaultDiet
	}
	recipes, err := analyzer.GenerateRecipes(ctx, RecipeRequest{
		Ingredients:    ingredients,
		DietPreference: diet,
		Allergens:      NormalizeAllergens(profile.Allergens),
	})
	if err != nil {
		return nil, fmt.Errorf("generate recipes: %w", err)
	}
	for i := range recipes {
		if strings.TrimSpace(recipes[i].ImageURL) == "" {
			recipes[i].ImageURL = recipeImage(ctx, analyzer, recipes[i].Name)
		}
		fillRecipeDefaults(&recipes[i])
	}
	return recipes, nil
}

// recipeImage is best effort: any failure yields the placeholder photo.
func recipeImage(ctx context.Context, analyzer Analyzer, name string) string {
	prompt := "Studio food photo of a healthy meal"
	if name = strings.TrimSpace(name); name != "" {
		prompt = "Studio food photo of " + name
	}
	url, err := analyzer.GenerateFoodImage(ctx, prompt)
	if err != nil || strings.TrimSpace(url) == "" {
		return FallbackFoodImageURL
	}
	return url
}

func fillRecipeDefaults(r *model.Recipe) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if strings.TrimSpace(r.ImageURL) == "" {
		r.ImageURL = FallbackFoodImageURL
	}
	switch strings.ToLower(strings.TrimSpace(string(r.Difficulty))) {
	case "hard":
		r.Difficulty = model.DifficultyHard
	case "medium":
		r.Difficulty = model.DifficultyMedium
	default:
		r.Difficulty = model.DifficultyEasy
	}
}

// RecipeDraft is the meal a cooked recipe logs as.
func RecipeDraft(r model.Recipe) (*MealDraft, SaveMealInput) {
	full := 1.0
	return NewMealDraft(r.Ingredients...), SaveMealInput{
		Type:          model.MealTypeRecipe,
		Source:        model.SourceHome,
		Image:         r.ImageURL,
		DrinkPairings: r.DrinkPairings,
		Confidence:    &full,
	}
}

// RecipeWalk steps through instructions. It can go back and restart and
// never changes the steps.
type RecipeWalk struct {
	steps []model.RecipeStep
	pos   int
}

func NewRecipeWalk(steps []model.RecipeStep) *RecipeWalk {
	return &RecipeWalk{steps: steps}
}

func (w *RecipeWalk) Len() int { return len(w.steps) }

func (w *RecipeWalk) Position() int { return w.pos }

func (w *RecipeWalk) Current() (model.RecipeStep, bool) {
	if len(w.steps) == 0 {
		return model.RecipeStep{}, false
	}
	return w.steps[w.pos], true
}

func (w *RecipeWalk) Next() bool {
	if w.pos+1 >= len(w.steps) {
		return false
	}
	w.pos++
	return true
}

func (w *RecipeWalk) Prev() bool {
	if w.pos == 0 {
		return false
	}
	w.pos--
	return true
}

func (w *RecipeWalk) Restart() { w.pos = 0 }

func (w *RecipeWalk) Last() bool {
	return len(w.steps) == 0 || w.pos == len(w.steps)-1
}
