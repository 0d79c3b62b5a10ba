package mealwise

import (
	"database/sql"
	"fmt"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that stored meal totals match their items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unreadable meal items: %d\n", report.UnreadableFoods)
			fmt.Fprintf(cmd.OutOrStdout(), "Meals with drifted totals: %d\n", report.TotalsDrift)
			fmt.Fprintf(cmd.OutOrStdout(), "Meals without an account: %d\n", report.OrphanMeals)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Fixed totals: %d\n", report.FixedTotals)
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Recompute drifted totals from meal items")
}
