package constants

import (
	"strings"
)

type Category string

const (
	MealsEntertainment Category = "Meals & Entertainment"
	Travel             Category = "Travel"
	OfficeSupplies     Category = "Office Supplies"
	Transportation     Category = "Transportation"
	Lodging            Category = "Lodging"
	Other              Category = "Other"
)

var allCategories = []Category{
	MealsEntertainment,
	Travel,
	OfficeSupplies,
	Transportation,
	Lodging,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a free-form label from the model to a fixed category.
// Returns Other with ok=false when the label is unknown.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"meals":         MealsEntertainment,
		"food":          MealsEntertainment,
		"restaurant":    MealsEntertainment,
		"entertainment": MealsEntertainment,
		"airfare":       Travel,
		"flight":        Travel,
		"supplies":      OfficeSupplies,
		"stationery":    OfficeSupplies,
		"taxi":          Transportation,
		"uber":          Transportation,
		"lyft":          Transportation,
		"parking":       Transportation,
		"hotel":         Lodging,
		"accommodation": Lodging,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
