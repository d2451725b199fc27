package export

import (
	"fmt"
	"strings"
)

// Category is a set of entity kinds included in an export.
type Category int

const (
	CategoryTasks    Category = 1 << iota // tasks
	CategoryBoards                        // boards
	CategorySettings                      // settings

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

var categoryNames = []struct {
	category Category
	name     string
}{
	{CategoryTasks, "tasks"},
	{CategoryBoards, "boards"},
	{CategorySettings, "settings"},
}

// Has reports whether every category of other is included in c.
func (c Category) Has(other Category) bool {
	return c&other == other
}

// Names lists the included categories in canonical order.
func (c Category) Names() []string {
	names := []string{}

	for _, entry := range categoryNames {
		if c.Has(entry.category) {
			names = append(names, entry.name)
		}
	}

	return names
}

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	default:
		return strings.Join(c.Names(), "+")
	}
}

// ParseCategories combines category names. "all" selects every category.
func ParseCategories(names []string) (Category, error) {
	result := Category(CategoryNone)

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "all" {
			result |= CategoryAll
			continue
		}

		found := false

		for _, entry := range categoryNames {
			if entry.name == name {
				result |= entry.category
				found = true

				break
			}
		}

		if !found {
			return CategoryNone, fmt.Errorf("unknown export category %q", raw)
		}
	}

	return result, nil
}
