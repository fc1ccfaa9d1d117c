package directory

import "strings"

type rule struct {
	category            Category
	nameKeywords        []string
	descriptionKeywords []string
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		category:            CategorySports,
		nameKeywords:        []string{"soccer", "basketball", "sport", "fitness"},
		descriptionKeywords: []string{"team", "game", "athletic"},
	},
	{
		category:            CategoryArts,
		nameKeywords:        []string{"art", "music", "theater", "drama"},
		descriptionKeywords: []string{"creative", "paint"},
	},
	{
		category:            CategoryAcademic,
		nameKeywords:        []string{"science", "math", "academic", "study", "olympiad"},
		descriptionKeywords: []string{"learning", "education", "competition"},
	},
	{
		category:            CategoryCommunity,
		nameKeywords:        []string{"volunteer", "community"},
		descriptionKeywords: []string{"service", "volunteer"},
	},
	{
		category:            CategoryTechnology,
		nameKeywords:        []string{"computer", "coding", "tech", "robotics"},
		descriptionKeywords: []string{"programming", "technology", "digital", "robot"},
	},
}

// DefaultCategory is returned when no rule matches.
const DefaultCategory = CategoryAcademic

// Classify infers the category of an activity from its name and description.
func Classify(name, description string) Category {
	name = strings.ToLower(name)
	description = strings.ToLower(description)
	for _, r := range rules {
		if r.matches(name, description) {
			return r.category
		}
	}
	return DefaultCategory
}

func (r rule) matches(name, description string) bool {
	return containsAny(name, r.nameKeywords) || containsAny(description, r.descriptionKeywords)
}

func containsAny(haystack string, keywords []string) bool {
	if haystack == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
