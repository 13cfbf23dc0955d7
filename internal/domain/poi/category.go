package poi

import (
	"fmt"
	"strings"
)

// Category identifies which kind of feature a POI is.
type Category string

const (
	CategoryToll           Category = "toll"
	CategoryRoadwork       Category = "roadwork"
	CategoryDuplicatedLane Category = "duplicated_lane"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryToll, CategoryRoadwork, CategoryDuplicatedLane}

// feedCategories maps the upper-cased TIPO column of the master feed to a category.
var feedCategories = map[string]Category{
	"PEDAGIO":         CategoryToll,
	"OBRA":            CategoryRoadwork,
	"VIA_DUPLA":       CategoryDuplicatedLane,
	"TOLL":            CategoryToll,
	"ROADWORK":        CategoryRoadwork,
	"DUPLICATED_LANE": CategoryDuplicatedLane,
}

// IsValid returns true if the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryToll, CategoryRoadwork, CategoryDuplicatedLane:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts an API value such as "toll" to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid poi category: %s", s)
	}
	return c, nil
}

// CategoryFromFeed maps a feed TIPO value. The second result is false for unknown types.
func CategoryFromFeed(tipo string) (Category, bool) {
	c, ok := feedCategories[strings.ToUpper(strings.TrimSpace(tipo))]
	return c, ok
}
