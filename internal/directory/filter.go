package directory

import (
	"strings"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

// Filter returns the activities that satisfy every active predicate in criteria,
// in input order. An empty result is a normal outcome.
//
// Day and morning/afternoon windows are expected to be applied by the data source;
// only the weekend case is evaluated here.
func Filter(activities models.Catalog, criteria Criteria) models.Catalog {
	query := strings.ToLower(criteria.SearchQuery)
	result := make(models.Catalog, 0, len(activities))
	for _, a := range activities {
		if !matchesCategory(a, criteria) {
			continue
		}
		if criteria.WeekendOnly && !meetsOnWeekend(a) {
			continue
		}
		if query != "" && !strings.Contains(searchText(a), query) {
			continue
		}
		result = append(result, a)
	}
	return result
}

func matchesCategory(a models.Activity, criteria Criteria) bool {
	if !criteria.restrictsCategory() {
		return true
	}
	return Classify(a.Name, a.Description) == criteria.Category
}

// meetsOnWeekend is lenient: activities without schedule details always pass.
// Details with no days never meet on a weekend.
func meetsOnWeekend(a models.Activity) bool {
	if !a.HasScheduleDetails() {
		return true
	}
	for _, day := range a.ScheduleDetails.Days {
		for _, weekend := range WeekendDays {
			if day == weekend {
				return true
			}
		}
	}
	return false
}

func searchText(a models.Activity) string {
	return strings.Join([]string{
		strings.ToLower(a.Name),
		strings.ToLower(a.Description),
		strings.ToLower(FormatSchedule(a)),
	}, " ")
}
