package mealwise

import (
	"context"
	"fmt"
	"strings"

	"github.com/samy1995/Mealwise/internal/auth"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign up, sign in and out",
}

var (
	authEmail     string
	authPassword  string
	authRemember  bool
	authDOB       string
	authFirstName string
	authLastName  string
	authDiet      string
	authAllergens string
)

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			password, err := passwordInput(cmd)
			if err != nil {
				return err
			}
			sess, err := a.auth.SignUp(ctx, auth.SignUpInput{
				Email:          authEmail,
				Password:       password,
				DateOfBirth:    authDOB,
				FirstName:      authFirstName,
				LastName:       authLastName,
				DietPreference: authDiet,
				Allergens:      service.SplitAllergenList(authAllergens),
			})
			if err != nil {
				return err
			}
			if err := afterLogin(a, sess, authRemember); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to mealwise, %s\n", sess.Email)
			return nil
		})
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			email, remember := authEmail, authRemember
			if email == "" {
				saved, ok, err := a.local.Get(service.KeySavedEmail)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("--email is required")
				}
				email = saved
				// A prefilled email stays remembered unless --remember=false.
				if !cmd.Flags().Changed("remember") {
					remember = true
				}
			}
			password, err := passwordInput(cmd)
			if err != nil {
				return err
			}
			sess, err := a.auth.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			if err := afterLogin(a, sess, remember); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.Email)
			return nil
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			if err := a.auth.SignOut(ctx); err != nil {
				return err
			}
			if err := a.guard.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		})
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			p, err := a.guard.Check(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", p.Email, p.ID)
			return nil
		})
	},
}

// afterLogin restarts the session clock and applies the remember-email choice.
func afterLogin(a *application, sess *service.Session, remember bool) error {
	if err := a.guard.RecordLogin(); err != nil {
		return err
	}
	return service.RememberEmail(a.local, sess.Email, remember)
}

func passwordInput(cmd *cobra.Command) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSignupCmd, authLoginCmd, authLogoutCmd, authWhoamiCmd)

	for _, c := range []*cobra.Command{authSignupCmd, authLoginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")
		c.Flags().BoolVar(&authRemember, "remember", false, "Remember the email on this device")
	}
	authSignupCmd.Flags().StringVar(&authDOB, "dob", "", "Date of birth YYYY-MM-DD")
	authSignupCmd.Flags().StringVar(&authFirstName, "first-name", "", "First name")
	authSignupCmd.Flags().StringVar(&authLastName, "last-name", "", "Last name")
	authSignupCmd.Flags().StringVar(&authDiet, "diet", service.DefaultDiet, "Diet preference")
	authSignupCmd.Flags().StringVar(&authAllergens, "allergens", "", "Comma separated allergens")
}
