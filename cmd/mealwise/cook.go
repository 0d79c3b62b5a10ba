package mealwise

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var (
	cookIngredients string
	cookPhoto       string
	cookPick        int
	cookSteps       bool
	cookLog         bool
)

var cookCmd = &cobra.Command{
	Use:   "cook",
	Short: "Suggest recipes from ingredients you have",
	Long: "Lists recipes that fit your diet and allergens from --ingredients and/or a fridge --photo. " +
		"Use --pick N to open one, --steps to walk through it and --log to record it as a cooked meal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cookLog && cookPick <= 0 {
			return fmt.Errorf("--log requires --pick")
		}
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			ingredients := splitList(cookIngredients)
			if cookPhoto != "" {
				image, err := readImage(cookPhoto)
				if err != nil {
					return err
				}
				found, err := a.analyzer.DetectIngredients(ctx, image)
				if err != nil {
					return fmt.Errorf("could not read ingredients from the photo: %w", err)
				}
				fmt.Fprintf(w, "Found: %s\n", strings.Join(found, ", "))
				ingredients = append(ingredients, found...)
			}

			recipes, err := service.GenerateRecipes(ctx, a.analyzer, profile, ingredients)
			if err != nil {
				return err
			}
			if len(recipes) == 0 {
				fmt.Fprintln(w, "No recipes found for those ingredients.")
				return nil
			}
			if cookPick <= 0 {
				for i, r := range recipes {
					fmt.Fprintf(w, "%d. %s (%s, %s) %.0f kcal\n   %s\n", i+1, r.Name, r.Difficulty, r.CookingTime,
						service.Aggregate(r.Ingredients).Calories, r.Description)
				}
				return nil
			}
			if cookPick > len(recipes) {
				return fmt.Errorf("--pick must be between 1 and %d", len(recipes))
			}
			recipe := recipes[cookPick-1]
			printRecipe(w, recipe)
			if warnings := service.MatchAllergens(recipe.Ingredients, profile.Allergens); len(warnings) > 0 {
				fmt.Fprintf(w, "Allergen warning: may contain %s\n", strings.Join(warnings, ", "))
			}
			if cookSteps {
				walkRecipe(w, recipe)
			}
			if !cookLog {
				return nil
			}
			draft, in := service.RecipeDraft(recipe)
			saved, err := a.mealLogger().Save(ctx, profile.ID, draft, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Logged %s as meal %s\n", recipe.Name, saved.ID)
			return nil
		})
	},
}

func printRecipe(w io.Writer, r model.Recipe) {
	fmt.Fprintf(w, "%s\n%s\n", r.Name, r.Description)
	fmt.Fprintf(w, "Difficulty: %s | Time: %s\n", r.Difficulty, r.CookingTime)
	fmt.Fprintln(w, "Ingredients:")
	printItems(w, r.Ingredients)
	printTotals(w, "Total", service.Aggregate(r.Ingredients))
	if len(r.OptionalIngredients) > 0 {
		fmt.Fprintf(w, "Optional: %s\n", strings.Join(r.OptionalIngredients, ", "))
	}
	if len(r.DrinkPairings) > 0 {
		fmt.Fprintf(w, "Pairs with: %s\n", strings.Join(r.DrinkPairings, ", "))
	}
}

func walkRecipe(w io.Writer, r model.Recipe) {
	walk := service.NewRecipeWalk(r.Instructions)
	if walk.Len() == 0 {
		return
	}
	for {
		step, _ := walk.Current()
		fmt.Fprintf(w, "Step %d/%d: %s\n", walk.Position()+1, walk.Len(), step.Instruction)
		if step.NutritionalHighlight != "" {
			fmt.Fprintf(w, "  %s\n", step.NutritionalHighlight)
		}
		if !walk.Next() {
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(cookCmd)
	cookCmd.Flags().StringVar(&cookIngredients, "ingredients", "", "Comma separated ingredients")
	cookCmd.Flags().StringVar(&cookPhoto, "photo", "", "Fridge or pantry photo")
	cookCmd.Flags().IntVar(&cookPick, "pick", 0, "Recipe number to open")
	cookCmd.Flags().BoolVar(&cookSteps, "steps", false, "Print the instructions step by step")
	cookCmd.Flags().BoolVar(&cookLog, "log", false, "Log the picked recipe as a cooked meal")
}
