package mealwise

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and delete logged meals",
}

var (
	historyPage int
	historyYes  bool
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyPage < 1 {
			return fmt.Errorf("--page must be >= 1")
		}
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			meals, err := a.meals.ListMeals(ctx, profile.ID, service.MealQuery{Page: historyPage - 1, PageSize: service.HistoryPageSize})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(meals) == 0 {
				fmt.Fprintln(w, "No meals logged yet.")
				return nil
			}
			for _, day := range service.GroupByLocalDay(meals, time.Local, a.now()) {
				fmt.Fprintf(w, "%s (%s)\n", day.Label, day.Date)
				for _, m := range day.Meals {
					names := make([]string, 0, len(m.Foods))
					for _, f := range m.Foods {
						names = append(names, f.Name)
					}
					where := string(m.Source)
					if m.RestaurantName != "" {
						where += " @ " + m.RestaurantName
					}
					fmt.Fprintf(w, "  %s  %s  %-8s %.0f kcal  %s  [%s]\n",
						m.Date.In(time.Local).Format("15:04"), m.ID, m.Type, m.Totals.Calories, strings.Join(names, ", "), where)
				}
				printTotals(w, "  Day total", day.Totals)
			}
			if len(meals) == service.HistoryPageSize {
				fmt.Fprintf(w, "More meals: --page %d\n", historyPage+1)
			}
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <meal-id>",
	Short: "Delete a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(args[0])
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			if !historyYes {
				var confirm service.DeleteConfirmer
				confirm.Tap(id, time.Now())
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete meal %s? Type y within %s to confirm: ", id, service.DeleteWindow)
				answer, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") || confirm.Tap(id, time.Now()) != service.DeleteConfirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
					return nil
				}
			}
			if err := a.meals.DeleteMeal(ctx, profile.ID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd)
	historyListCmd.Flags().IntVar(&historyPage, "page", 1, "Page number")
	historyDeleteCmd.Flags().BoolVar(&historyYes, "yes", false, "Skip confirmation")
}
