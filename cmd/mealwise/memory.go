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

var memoryMonth string

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show a month of eating: stats and a behavioral summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			month := strings.TrimSpace(memoryMonth)
			if month == "" {
				month = service.CurrentMonth(a.now())
			}
			reporter := &service.MonthlyReporter{
				Meals:    a.meals,
				Analyzer: a.analyzer,
				Cache:    service.ActionPlanCache{Store: a.local},
				Now:      a.now,
				Log:      a.log.WithComponent("memory"),
			}
			view, err := reporter.Load(ctx, profile, month)
			if err != nil {
				return err
			}
			printMonthlyView(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

func printMonthlyView(w io.Writer, view service.MonthlyView) {
	s := view.Stats
	fmt.Fprintf(w, "Month: %s\n", s.Month)
	fmt.Fprintf(w, "Meals logged: %d\n", s.MealCount)
	if !s.Eligible() {
		fmt.Fprintf(w, "Log %d more meal(s) this month to unlock your summary.\n", s.MealsNeeded())
		return
	}
	fmt.Fprintf(w, "Home: %d | Ordered: %d\n", s.HomeCount, s.OrderedCount)
	fmt.Fprintf(w, "Macros: Protein %.0f%% | Fat %.0f%% | Carbs %.0f%%\n", s.Macros.Protein, s.Macros.Fat, s.Macros.Carbs)
	r := view.Report
	if r == nil {
		return
	}
	if view.Degraded {
		fmt.Fprintln(w, "(Summary computed offline.)")
	}
	fmt.Fprintf(w, "\n%s\n", r.BehaviorSummary)
	for _, p := range r.Patterns {
		fmt.Fprintf(w, "- %s\n", p)
	}
	for _, t := range r.Trends {
		fmt.Fprintf(w, "%s: %.0f %s\n", t.Label, t.Value, trendArrow(t.Direction))
	}
	fmt.Fprintf(w, "Consistency: %.0f%%\n", r.ConsistencyScore*100)
	fmt.Fprintf(w, "Next step: %s\n", r.ActionPlan)
	if len(r.Insights) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(r.Insights, "\n"))
	}
}

func trendArrow(d model.TrendDirection) string {
	switch d {
	case model.TrendUp:
		return "↑"
	case model.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.Flags().StringVar(&memoryMonth, "month", "", "Month YYYY-MM (default current month)")
}
