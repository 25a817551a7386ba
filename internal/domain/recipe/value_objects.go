package recipe

import "strings"

// Category classifies a recipe into one of the fixed meal categories.
type Category string

const (
	CategoryBreakfast Category = "Ontbijt"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Diner"
	CategoryDessert   Category = "Dessert"
	CategorySnack     Category = "Snack"
)

// DefaultCategory is assumed when the caller does not pick one.
const DefaultCategory = CategoryDinner

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryBreakfast,
		CategoryLunch,
		CategoryDinner,
		CategoryDessert,
		CategorySnack,
	}
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert, CategorySnack:
		return true
	}
	return false
}

// String returns the category's display value.
func (c Category) String() string {
	return string(c)
}

// categoryAliases maps English spellings onto the Dutch display
// values, so both are accepted on the wire.
var categoryAliases = map[string]Category{
	"breakfast": CategoryBreakfast,
	"dinner":    CategoryDinner,
}

// ParseCategory maps a raw string onto a Category, case-insensitively.
// Both the Dutch display values and their English names are accepted;
// unknown or empty input falls back to the default category.
func ParseCategory(raw string) Category {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories() {
		if strings.EqualFold(raw, string(c)) {
			return c
		}
	}
	if c, ok := categoryAliases[strings.ToLower(raw)]; ok {
		return c
	}
	return DefaultCategory
}
