package domain

import "strings"

type Category string

func (c Category) String() string {
	return string(c)
}

const (
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
)

// DefaultCategory is selected when nothing valid has been persisted.
const DefaultCategory = CategoryTechnology

// Categories is the display order of the category tabs.
var Categories = []Category{
	CategoryTechnology,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryHealth,
	CategoryScience,
	CategorySports,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns the tab label, e.g. "Technology".
func (c Category) DisplayName() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Index returns the position of c in Categories, or -1.
func (c Category) Index() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return -1
}

// Next returns the category after c, wrapping around. Unknown values map to the first entry.
func (c Category) Next() Category {
	i := c.Index()
	return Categories[(i+1)%len(Categories)]
}

// Prev returns the category before c, wrapping around.
func (c Category) Prev() Category {
	i := c.Index()
	if i <= 0 {
		return Categories[len(Categories)-1]
	}
	return Categories[i-1]
}
