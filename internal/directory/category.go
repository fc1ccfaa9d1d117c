package directory

import "strings"

// Category is one of the fixed activity classification tags.
type Category string

const (
	CategoryAll        Category = "all"
	CategorySports     Category = "sports"
	CategoryArts       Category = "arts"
	CategoryAcademic   Category = "academic"
	CategoryCommunity  Category = "community"
	CategoryTechnology Category = "technology"
)

// CategoryInfo holds the presentation attributes of a category.
type CategoryInfo struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

var categoryInfo = map[Category]CategoryInfo{
	CategorySports:     {Label: "Sports", Color: "#e8f5e9", TextColor: "#2e7d32"},
	CategoryArts:       {Label: "Arts", Color: "#f3e5f5", TextColor: "#7b1fa2"},
	CategoryAcademic:   {Label: "Academic", Color: "#e3f2fd", TextColor: "#1565c0"},
	CategoryCommunity:  {Label: "Community", Color: "#fff3e0", TextColor: "#e65100"},
	CategoryTechnology: {Label: "Technology", Color: "#e8eaf6", TextColor: "#3949ab"},
}

// Categories returns the taxonomy in classification priority order.
func Categories() []Category {
	return []Category{CategorySports, CategoryArts, CategoryAcademic, CategoryCommunity, CategoryTechnology}
}

// Info returns the label and colors for the category. Unknown values fall back to academic.
func (c Category) Info() CategoryInfo {
	if info, ok := categoryInfo[c]; ok {
		return info
	}
	return categoryInfo[CategoryAcademic]
}

// Valid reports whether c is a taxonomy tag or the all sentinel.
func (c Category) Valid() bool {
	if c == CategoryAll {
		return true
	}
	_, ok := categoryInfo[c]
	return ok
}

// ParseCategory normalises a transport value. Empty input means no restriction.
func ParseCategory(raw string) (Category, bool) {
	value := Category(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return CategoryAll, true
	}
	return value, value.Valid()
}
