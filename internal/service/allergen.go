package service

import (
	"strings"

	"github.com/samy1995/Mealwise/internal/model"
)

// CommonAllergens are offered as presets when editing a profile.
var CommonAllergens = []string{"peanut", "tree_nut", "milk", "egg", "wheat", "soy", "fish", "shellfish", "sesame"}

// MatchAllergens flags an allergen when it is contained in a food name or the
// food name is contained in it. The reverse direction over-matches ("almond"
// flags "almond milk") and is kept that way on purpose.
func MatchAllergens(foods []model.FoodItem, allergens []string) []string {
	normalized := NormalizeAllergens(allergens)
	if len(normalized) == 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, food := range foods {
		name := normalizeName(food.Name)
		if name == "" {
			continue
		}
		for _, allergen := range normalized {
			if seen[allergen] {
				continue
			}
			if strings.Contains(name, allergen) || strings.Contains(allergen, name) {
				seen[allergen] = true
				out = append(out, allergen)
			}
		}
	}
	return out
}

// NormalizeAllergens trims, lower-cases and de-duplicates, keeping first
// occurrence order.
func NormalizeAllergens(allergens []string) []string {
	out := make([]string, 0, len(allergens))
	seen := map[string]bool{}
	for _, a := range allergens {
		a = normalizeName(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// SplitAllergenList parses a comma separated flag value.
func SplitAllergenList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeAllergens(strings.Split(raw, ","))
}
