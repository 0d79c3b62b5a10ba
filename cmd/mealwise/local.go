package mealwise

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Manage values stored on this device",
}

var (
	localSavedEmail      string
	localTipDismissed    bool
	localForgetEmail     bool
	localShowAllInternal bool
)

var localSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set device values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			store := service.NewLocalStore(sqldb)
			updates := 0
			if cmd.Flags().Changed("saved-email") {
				if err := service.RememberEmail(store, localSavedEmail, true); err != nil {
					return err
				}
				updates++
			}
			if localForgetEmail {
				if err := service.RememberEmail(store, "", false); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("pwa-tip-dismissed") {
				v := "false"
				if localTipDismissed {
					v = "true"
				}
				if err := store.Set(service.KeyPWATipDismissed, v); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d value(s)\n", updates)
			return nil
		})
	},
}

var localGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show device values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			store := service.NewLocalStore(sqldb)
			if localShowAllInternal {
				all, err := store.List()
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(all))
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					v := all[k]
					if k == string(service.KeySessionToken) || k == string(service.KeySigningSecret) {
						v = "<redacted>"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
				}
				return nil
			}
			for _, k := range service.UserKeys {
				v, ok, err := store.Get(k)
				if err != nil {
					return err
				}
				if !ok {
					v = "(not set)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(localCmd)
	localCmd.AddCommand(localSetCmd, localGetCmd)

	localSetCmd.Flags().StringVar(&localSavedEmail, "saved-email", "", "Email to prefill at login")
	localSetCmd.Flags().BoolVar(&localForgetEmail, "forget-email", false, "Forget the saved email")
	localSetCmd.Flags().BoolVar(&localTipDismissed, "pwa-tip-dismissed", true, "Hide the shortcut tip on the home screen")
	localGetCmd.Flags().BoolVar(&localShowAllInternal, "all", false, "Include session and cache keys")
}
