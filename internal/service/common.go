package service

import (
	"math"
	"strings"
)

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 || math.IsNaN(value) {
		return newValidationError(name, "must be >= 0")
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func round(v float64) float64 {
	return math.Round(v)
}

func floatPtr(v float64) *float64 {
	return &v
}
