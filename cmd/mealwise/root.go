package mealwise

import (
	"errors"
	"fmt"
	"os"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mealwise",
	Short: "mealwise logs meals and coaches your eating habits from the terminal",
	Long:  "mealwise estimates nutrition from meal photos or text, suggests recipes from what you have, and summarizes each month of eating.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// userMessage maps auth and gate errors to the next step the user can take.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return "Your session expired. Sign in again with `mealwise auth login`."
	case errors.Is(err, service.ErrNotAuthenticated):
		return "Not signed in. Run `mealwise auth login` or `mealwise auth signup`."
	case errors.Is(err, service.ErrProfileIncomplete):
		return "Add your date of birth first: `mealwise profile update --dob YYYY-MM-DD`."
	default:
		return err.Error()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file (default: config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}
