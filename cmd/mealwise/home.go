package mealwise

import (
	"context"
	"fmt"
	"time"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show today's totals and a note on your week",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			meals, err := a.meals.ListMeals(ctx, profile.ID, service.HomeStatsQuery())
			if err != nil {
				return err
			}
			now := a.now()
			w := cmd.OutOrStdout()
			name := profile.FirstName
			if name == "" {
				name = profile.Email
			}
			fmt.Fprintf(w, "Hi %s\n", name)
			stats := service.RecentWeekStats(meals, now)
			fmt.Fprintln(w, service.HomeMessage(stats, nil))
			printTotals(w, "Today", service.TodayTotals(meals, time.Local, now))
			fmt.Fprintf(w, "Meals this week: %d (%.0f%% home)\n", stats.WeekCount, stats.HomeRatio*100)
			if v, ok, _ := a.local.Get(service.KeyPWATipDismissed); !ok || v != "true" {
				fmt.Fprintln(w, "Tip: alias `mealwise meal --save --photo` to log from your shell in one step. Hide with `mealwise local set --pwa-tip-dismissed`.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
