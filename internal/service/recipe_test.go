package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func TestGenerateRecipesPassesProfileAndFillsDefaults(t *testing.T) {
	a := &stubAnalyzer{recipes: []model.Recipe{
		{Name: "Spinach Dal", Difficulty: "medium"},
		{ID: "keep-id", Name: "Jeera Rice", ImageURL: "https://img.test/rice.jpg", Difficulty: "expert"},
	}}
	profile := model.Profile{ID: "u1", DietPreference: "vegan", Allergens: []string{"Peanut", "peanut"}}

	recipes, err := service.GenerateRecipes(context.Background(), a, profile, []string{" spinach", "Lentils", "spinach ", ""})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	wantReq := service.RecipeRequest{Ingredients: []string{"spinach", "Lentils"}, DietPreference: "vegan", Allergens: []string{"peanut"}}
	if !reflect.DeepEqual(a.recipeReq, wantReq) {
		t.Fatalf("expected request %+v, got %+v", wantReq, a.recipeReq)
	}
	if recipes[0].ID == "" || recipes[0].ImageURL != service.FallbackFoodImageURL || recipes[0].Difficulty != model.DifficultyMedium {
		t.Fatalf("expected defaults filled, got %+v", recipes[0])
	}
	if recipes[1].ID != "keep-id" || recipes[1].ImageURL != "https://img.test/rice.jpg" || recipes[1].Difficulty != model.DifficultyEasy {
		t.Fatalf("unexpected second recipe %+v", recipes[1])
	}
}

func TestGenerateRecipesGeneratesMissingImages(t *testing.T) {
	a := &stubAnalyzer{
		image: "https://img.test/generated.png",
		recipes: []model.Recipe{
			{Name: "Spinach Dal"},
			{Name: "Jeera Rice", ImageURL: "https://img.test/rice.jpg"},
			{},
		},
	}
	recipes, err := service.GenerateRecipes(context.Background(), a, model.Profile{}, []string{"spinach"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if recipes[0].ImageURL != "https://img.test/generated.png" || recipes[2].ImageURL != "https://img.test/generated.png" {
		t.Fatalf("expected generated images, got %q and %q", recipes[0].ImageURL, recipes[2].ImageURL)
	}
	if recipes[1].ImageURL != "https://img.test/rice.jpg" {
		t.Fatalf("existing image must be kept, got %q", recipes[1].ImageURL)
	}
	wantPrompts := []string{"Studio food photo of Spinach Dal", "Studio food photo of a healthy meal"}
	if !reflect.DeepEqual(a.imagePrompts, wantPrompts) {
		t.Fatalf("expected prompts %v, got %v", wantPrompts, a.imagePrompts)
	}
}

func TestGenerateRecipesFallsBackWhenImageGenerationFails(t *testing.T) {
	a := &stubAnalyzer{recipes: []model.Recipe{{Name: "Spinach Dal"}}}
	recipes, err := service.GenerateRecipes(context.Background(), a, model.Profile{}, []string{"spinach"})
	if err != nil {
		t.Fatalf("image failure must not fail generation: %v", err)
	}
	if len(a.imagePrompts) != 1 {
		t.Fatalf("expected one image request, got %d", len(a.imagePrompts))
	}
	if recipes[0].ImageURL != service.FallbackFoodImageURL {
		t.Fatalf("expected placeholder image, got %q", recipes[0].ImageURL)
	}
}

func TestGenerateRecipesRejectsEmptyIngredients(t *testing.T) {
	a := &stubAnalyzer{}
	if _, err := service.GenerateRecipes(context.Background(), a, model.Profile{}, []string{" ", ""}); !service.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if a.recipeReq.Ingredients != nil {
		t.Fatalf("analyzer must not be called")
	}
}

func TestRecipeDraftLogsAsCookedHomeMeal(t *testing.T) {
	r := model.Recipe{
		Name:          "Omelette",
		ImageURL:      "https://img.test/omelette.jpg",
		DrinkPairings: []string{"Orange juice"},
		Ingredients:   []model.FoodItem{item("Eggs", 156, 12, 10, 1, 0.9), item("Butter", 36, 0, 4, 0, 0.5)},
	}
	draft, in := service.RecipeDraft(r)
	if draft.Totals.Calories != 192 {
		t.Fatalf("expected 192 kcal, got %v", draft.Totals.Calories)
	}
	if in.Type != model.MealTypeRecipe || in.Source != model.SourceHome || in.Confidence == nil || *in.Confidence != 1 {
		t.Fatalf("unexpected save input %+v", in)
	}
}

func TestRecipeWalk(t *testing.T) {
	w := service.NewRecipeWalk([]model.RecipeStep{{Instruction: "Whisk"}, {Instruction: "Heat pan"}, {Instruction: "Cook"}})
	if w.Prev() {
		t.Fatalf("cannot go before the first step")
	}
	w.Next()
	w.Next()
	if w.Next() {
		t.Fatalf("cannot go past the last step")
	}
	if step, _ := w.Current(); step.Instruction != "Cook" || !w.Last() {
		t.Fatalf("expected last step Cook, got %q", step.Instruction)
	}
	w.Prev()
	if w.Position() != 1 {
		t.Fatalf("expected position 1, got %d", w.Position())
	}
	w.Restart()
	if step, _ := w.Current(); step.Instruction != "Whisk" {
		t.Fatalf("expected restart at Whisk, got %q", step.Instruction)
	}

	empty := service.NewRecipeWalk(nil)
	if _, ok := empty.Current(); ok || !empty.Last() {
		t.Fatalf("expected empty walk to have no current step")
	}
}

func TestValidateDiet(t *testing.T) {
	if err := service.ValidateDiet("pescatarian"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.ValidateDiet("carnivore"); !service.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
