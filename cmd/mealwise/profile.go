package mealwise

import (
	"context"
	"fmt"
	"strings"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit your profile",
}

var (
	profileFirstName string
	profileLastName  string
	profilePhone     string
	profileCountry   string
	profileDiet      string
	profileAllergens string
	profileDOB       string
)

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *application) error {
			p, err := a.guard.Check(ctx)
			if err != nil {
				return err
			}
			printProfile(cmd, p)
			if service.RequireCompleteProfile(p) != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Date of birth is missing. Add it with `mealwise profile update --dob YYYY-MM-DD`.")
			}
			return nil
		})
	},
}

// profile update stays reachable without a date of birth so the gate can be
// cleared.
var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch service.ProfilePatch
		set := func(flag string, v string) *string {
			if cmd.Flags().Changed(flag) {
				return &v
			}
			return nil
		}
		patch.FirstName = set("first-name", profileFirstName)
		patch.LastName = set("last-name", profileLastName)
		patch.Phone = set("phone", profilePhone)
		patch.CountryRegion = set("country", profileCountry)
		patch.DietPreference = set("diet", profileDiet)
		patch.DateOfBirth = set("dob", profileDOB)
		if cmd.Flags().Changed("allergens") {
			a := service.SplitAllergenList(profileAllergens)
			patch.Allergens = &a
		}
		if patch.Empty() {
			return fmt.Errorf("set at least one flag")
		}
		return withApp(cmd, func(ctx context.Context, a *application) error {
			current, err := a.guard.Check(ctx)
			if err != nil {
				return err
			}
			p, err := service.UpdateProfile(ctx, a.profiles, current.ID, patch, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
			printProfile(cmd, p)
			return nil
		})
	},
}

func printProfile(cmd *cobra.Command, p model.Profile) {
	w := cmd.OutOrStdout()
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = "-"
	}
	allergens := "none"
	if len(p.Allergens) > 0 {
		allergens = strings.Join(p.Allergens, ", ")
	}
	dob := p.DateOfBirth
	if dob == "" {
		dob = "-"
	}
	fmt.Fprintf(w, "Email: %s\n", p.Email)
	fmt.Fprintf(w, "Name: %s\n", name)
	fmt.Fprintf(w, "Date of birth: %s\n", dob)
	fmt.Fprintf(w, "Diet: %s\n", p.DietPreference)
	fmt.Fprintf(w, "Allergens: %s\n", allergens)
	if p.Phone != "" {
		fmt.Fprintf(w, "Phone: %s\n", p.Phone)
	}
	if p.CountryRegion != "" {
		fmt.Fprintf(w, "Country/region: %s\n", p.CountryRegion)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone")
	profileUpdateCmd.Flags().StringVar(&profileCountry, "country", "", "Country or region")
	profileUpdateCmd.Flags().StringVar(&profileDiet, "diet", "", "Diet: "+strings.Join(service.DietOptions, ", "))
	profileUpdateCmd.Flags().StringVar(&profileAllergens, "allergens", "", "Comma separated allergens (replaces the list; empty clears it)")
	profileUpdateCmd.Flags().StringVar(&profileDOB, "dob", "", "Date of birth YYYY-MM-DD")
}
