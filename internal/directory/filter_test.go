package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

func sampleCatalog() models.Catalog {
	return models.Catalog{
		{
			Name:        "Chess Club",
			Description: "Weekly STRATEGY sessions and tournaments",
			Schedule:    "Fridays, 3:30 PM - 5:00 PM",
			ScheduleDetails: &models.ScheduleDetails{
				Days: []string{"Friday"}, StartTime: "15:30", EndTime: "17:00",
			},
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu"},
		},
		{
			Name:        "Soccer Team",
			Description: "Join the school soccer team",
			ScheduleDetails: &models.ScheduleDetails{
				Days: []string{"Saturday"}, StartTime: "09:00", EndTime: "11:00",
			},
			MaxParticipants: 22,
		},
		{
			Name:            "Art Workshop",
			Description:     "Creative sessions",
			Schedule:        "Sundays at noon",
			MaxParticipants: 10,
		},
		{
			Name:        "Robotics Lab",
			Description: "Build robots",
			ScheduleDetails: &models.ScheduleDetails{
				Days: []string{"Tuesday", "Thursday"}, StartTime: "15:00", EndTime: "16:30",
			},
			MaxParticipants: 8,
		},
	}
}

func TestFilterNoCriteriaKeepsEverythingInOrder(t *testing.T) {
	catalog := sampleCatalog()
	got := Filter(catalog, Criteria{Category: CategoryAll})
	assert.Equal(t, catalog.Names(), got.Names())

	got = Filter(catalog, Criteria{})
	assert.Len(t, got, len(catalog))
}

func TestFilterByCategory(t *testing.T) {
	got := Filter(sampleCatalog(), Criteria{Category: CategoryTechnology})
	assert.Equal(t, []string{"Robotics Lab"}, got.Names())

	got = Filter(sampleCatalog(), Criteria{Category: CategoryArts})
	assert.Equal(t, []string{"Art Workshop"}, got.Names())
}

func TestFilterWeekendIsLenientForLegacySchedules(t *testing.T) {
	got := Filter(sampleCatalog(), Criteria{Category: CategoryAll, WeekendOnly: true})
	assert.Equal(t, []string{"Soccer Team", "Art Workshop"}, got.Names())
}

func TestFilterWeekendRejectsEmptyDayList(t *testing.T) {
	catalog := models.Catalog{
		{Name: "Study Hall", Description: "Quiet study", ScheduleDetails: &models.ScheduleDetails{Days: []string{}}, MaxParticipants: 30},
		{Name: "Open Gym", Description: "Drop-in sports", Schedule: "Weekends", MaxParticipants: 30},
	}
	got := Filter(catalog, Criteria{WeekendOnly: true})
	assert.Equal(t, []string{"Open Gym"}, got.Names())
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	catalog := models.Catalog{{Name: "Chess Club", Description: "Weekly STRATEGY games", MaxParticipants: 10}}
	got := Filter(catalog, Criteria{SearchQuery: "strategy"})
	require.Len(t, got, 1)
	assert.Equal(t, "Chess Club", got[0].Name)

	got = Filter(sampleCatalog(), Criteria{SearchQuery: "ROBOTS"})
	assert.Equal(t, []string{"Robotics Lab"}, got.Names())
}

func TestFilterSearchCoversFormattedSchedule(t *testing.T) {
	got := Filter(sampleCatalog(), Criteria{SearchQuery: "3:30 pm"})
	assert.Equal(t, []string{"Chess Club"}, got.Names())

	got = Filter(sampleCatalog(), Criteria{SearchQuery: "saturday"})
	assert.Equal(t, []string{"Soccer Team"}, got.Names())

	got = Filter(sampleCatalog(), Criteria{SearchQuery: "sundays at noon"})
	assert.Equal(t, []string{"Art Workshop"}, got.Names())
}

func TestFilterEmptyResultIsNotNil(t *testing.T) {
	got := Filter(sampleCatalog(), Criteria{Category: CategoryCommunity})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterToleratesMissingDescription(t *testing.T) {
	catalog := models.Catalog{{Name: "Volunteer Crew", MaxParticipants: 5}}
	got := Filter(catalog, Criteria{Category: CategoryCommunity, SearchQuery: "crew"})
	assert.Len(t, got, 1)
}

func TestFilterPredicatesCombineWithAnd(t *testing.T) {
	catalog := sampleCatalog()
	full := Criteria{Category: CategorySports, SearchQuery: "soccer", WeekendOnly: true}
	relaxed := []Criteria{
		{Category: CategoryAll, SearchQuery: "soccer", WeekendOnly: true},
		{Category: CategorySports, WeekendOnly: true},
		{Category: CategorySports, SearchQuery: "soccer"},
	}
	base := Filter(catalog, full)
	for _, c := range relaxed {
		wider := Filter(catalog, c)
		for _, name := range base.Names() {
			_, ok := wider.Find(name)
			assert.True(t, ok, "dropping a predicate removed %q", name)
		}
		assert.GreaterOrEqual(t, len(wider), len(base))
	}
	for _, a := range base {
		assert.Equal(t, CategorySports, Classify(a.Name, a.Description))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	before := catalog.Names()
	_ = Filter(catalog, Criteria{Category: CategoryArts, WeekendOnly: true})
	assert.Equal(t, before, catalog.Names())
}

func TestParseTimeRange(t *testing.T) {
	tr, ok := ParseTimeRange("Weekend")
	assert.True(t, ok)
	assert.True(t, tr.Weekend())
	_, hasWindow := tr.Window()
	assert.False(t, hasWindow)

	tr, ok = ParseTimeRange("morning")
	assert.True(t, ok)
	w, hasWindow := tr.Window()
	assert.True(t, hasWindow)
	assert.Equal(t, Window{Start: "06:00", End: "08:00"}, w)

	_, ok = ParseTimeRange("midnight")
	assert.False(t, ok)
}
