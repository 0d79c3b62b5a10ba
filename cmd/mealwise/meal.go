package mealwise

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var (
	mealPhoto      string
	mealText       string
	mealRemove     string
	mealSource     string
	mealRestaurant string
	mealNotes      string
	mealDrinks     string
	mealDate       string
	mealTime       string
	mealSave       bool
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Estimate a meal from a photo or text and optionally log it",
	Long: "Builds a meal from a photo (--photo) and/or free text (--text), prints the items and totals, " +
		"flags allergens from your profile, and logs it with --save.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(mealPhoto) == "" && strings.TrimSpace(mealText) == "" {
			return fmt.Errorf("--photo or --text is required")
		}
		remove, err := parseIndexes(mealRemove)
		if err != nil {
			return err
		}
		loggedAt, err := parseDateTimeOrNow(mealDate, mealTime)
		if err != nil {
			return err
		}
		source := model.MealSource(strings.ToLower(strings.TrimSpace(mealSource)))

		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			draft := service.NewMealDraft()
			var image string
			if mealPhoto != "" {
				image, err = readImage(mealPhoto)
				if err != nil {
					return err
				}
				detected, _, err := service.DetectMeal(ctx, a.analyzer, image, profile.Allergens)
				if err != nil {
					return fmt.Errorf("could not analyze the photo, try again or describe the meal with --text: %w", err)
				}
				draft.Append(detected.Foods...)
			}
			if mealText != "" {
				items, err := service.ManualItems(ctx, a.analyzer, mealText)
				if err != nil {
					return err
				}
				draft.Append(items...)
			}

			sort.Sort(sort.Reverse(sort.IntSlice(remove)))
			for _, idx := range remove {
				if _, err := draft.Remove(idx - 1); err != nil {
					return err
				}
			}

			if draft.Empty() {
				fmt.Fprintln(w, "No food items detected.")
				return nil
			}
			printItems(w, draft.Foods)
			printTotals(w, "Total", draft.Totals)
			if warnings := service.MatchAllergens(draft.Foods, profile.Allergens); len(warnings) > 0 {
				fmt.Fprintf(w, "Allergen warning: may contain %s\n", strings.Join(warnings, ", "))
			}

			if !mealSave {
				fmt.Fprintln(w, "Preview only. Re-run with --save to log this meal.")
				return nil
			}
			saved, err := a.mealLogger().Save(ctx, profile.ID, draft, service.SaveMealInput{
				Type:           model.MealTypeMeal,
				Source:         source,
				RestaurantName: mealRestaurant,
				Image:          image,
				DrinkPairings:  splitList(mealDrinks),
				Notes:          mealNotes,
				LoggedAt:       loggedAt,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Logged meal %s\n", saved.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.Flags().StringVar(&mealPhoto, "photo", "", "Meal photo to analyze")
	mealCmd.Flags().StringVar(&mealText, "text", "", "Describe the meal, e.g. \"2 eggs, toast with butter\"")
	mealCmd.Flags().StringVar(&mealRemove, "remove", "", "Comma separated item numbers to drop before saving")
	mealCmd.Flags().StringVar(&mealSource, "source", string(model.SourceHome), "Where the meal came from: home or ordered")
	mealCmd.Flags().StringVar(&mealRestaurant, "restaurant", "", "Restaurant name for ordered meals")
	mealCmd.Flags().StringVar(&mealNotes, "notes", "", "Notes")
	mealCmd.Flags().StringVar(&mealDrinks, "drinks", "", "Comma separated drinks")
	mealCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD (default now)")
	mealCmd.Flags().StringVar(&mealTime, "time", "", "Time HH:MM (requires --date)")
	mealCmd.Flags().BoolVar(&mealSave, "save", false, "Log the meal")
}
