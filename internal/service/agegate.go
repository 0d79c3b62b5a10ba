package service

import (
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

const (
	MinimumAge      = 13
	dateOfBirthForm = "2006-01-02"
)

// ValidateDateOfBirth rejects future dates first, then users younger than
// MinimumAge. The age check only looks at the month when the year difference
// is exactly MinimumAge; the day of month is ignored.
func ValidateDateOfBirth(dateOfBirth string, now time.Time) error {
	if strings.TrimSpace(dateOfBirth) == "" {
		return newValidationError("date of birth", "Date of Birth is required.")
	}
	dob, err := parseDateOfBirth(dateOfBirth)
	if err != nil {
		return err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dob.After(today) {
		return ErrFutureBirthDate
	}
	age := now.Year() - dob.Year()
	if age < MinimumAge || (age == MinimumAge && now.Month() < dob.Month()) {
		return ErrUnderage
	}
	return nil
}

// RequireCompleteProfile gates every view behind a recorded date of birth.
func RequireCompleteProfile(p model.Profile) error {
	if strings.TrimSpace(p.DateOfBirth) == "" {
		return ErrProfileIncomplete
	}
	return nil
}

func parseDateOfBirth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateOfBirthForm, s)
	if err != nil {
		return time.Time{}, newValidationError("date of birth", "invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
