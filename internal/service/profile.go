package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

// EnsureProfile loads a profile and creates a default one when the row is
// missing.
func EnsureProfile(ctx context.Context, store ProfileStore, userID, email string) (model.Profile, error) {
	p, err := store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return model.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	p = model.Profile{
		ID:             userID,
		Email:          email,
		DietPreference: DefaultDiet,
		Allergens:      []string{},
	}
	if err := store.UpsertProfile(ctx, p); err != nil {
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// ValidateProfilePatch checks a patch before it reaches the store and
// normalizes it in place.
func ValidateProfilePatch(patch *ProfilePatch, now time.Time) error {
	if patch.Empty() {
		return newValidationError("", "set at least one profile field")
	}
	if patch.DateOfBirth != nil {
		dob := strings.TrimSpace(*patch.DateOfBirth)
		if err := ValidateDateOfBirth(dob, now); err != nil {
			return err
		}
		patch.DateOfBirth = &dob
	}
	if patch.DietPreference != nil {
		diet := normalizeName(*patch.DietPreference)
		if err := ValidateDiet(diet); err != nil {
			return err
		}
		patch.DietPreference = &diet
	}
	if patch.Allergens != nil {
		a := NormalizeAllergens(*patch.Allergens)
		patch.Allergens = &a
	}
	for _, f := range []*string{patch.FirstName, patch.LastName, patch.Phone, patch.CountryRegion} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	return nil
}

func UpdateProfile(ctx context.Context, store ProfileStore, userID string, patch ProfilePatch, now time.Time) (model.Profile, error) {
	if userID == "" {
		return model.Profile{}, ErrNotAuthenticated
	}
	if err := ValidateProfilePatch(&patch, now); err != nil {
		return model.Profile{}, err
	}
	p, err := store.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
