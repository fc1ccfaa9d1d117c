package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

func withParticipants(taken, max int) models.Activity {
	participants := make([]string, taken)
	for i := range participants {
		participants[i] = "student@mergington.edu"
	}
	return models.Activity{Name: "Gym Class", Description: "Physical education", MaxParticipants: max, Participants: participants}
}

func TestBuildViewModelCapacityBands(t *testing.T) {
	full := BuildViewModel(withParticipants(10, 10))
	assert.Equal(t, CapacityFull, full.CapacityStatus)
	assert.Equal(t, 0, full.SpotsLeft)
	assert.True(t, full.IsFull())

	near := BuildViewModel(withParticipants(8, 10))
	assert.Equal(t, CapacityNearFull, near.CapacityStatus)
	assert.InDelta(t, 80.0, near.CapacityPercentage, 0.001)

	boundary := BuildViewModel(withParticipants(3, 4))
	assert.Equal(t, CapacityNearFull, boundary.CapacityStatus)

	open := BuildViewModel(withParticipants(5, 10))
	assert.Equal(t, CapacityAvailable, open.CapacityStatus)
	assert.Equal(t, 5, open.SpotsLeft)
	assert.Equal(t, 5, open.TakenSpots)
	assert.Equal(t, 10, open.TotalSpots)
}

func TestBuildViewModelOverCapacity(t *testing.T) {
	vm := BuildViewModel(withParticipants(12, 10))
	assert.Equal(t, -2, vm.SpotsLeft)
	assert.Equal(t, CapacityFull, vm.CapacityStatus)
	assert.InDelta(t, 120.0, vm.CapacityPercentage, 0.001)
}

func TestBuildViewModelZeroCapacity(t *testing.T) {
	assert.NotPanics(t, func() {
		vm := BuildViewModel(withParticipants(0, 0))
		assert.Equal(t, CapacityFull, vm.CapacityStatus)
		assert.Equal(t, 100.0, vm.CapacityPercentage)
		assert.Equal(t, 0, vm.SpotsLeft)
	})
}

func TestBuildViewModelCategory(t *testing.T) {
	vm := BuildViewModel(models.Activity{Name: "Basketball Team", MaxParticipants: 15})
	assert.Equal(t, CategorySports, vm.Category)
	assert.Equal(t, "Sports", vm.CategoryInfo.Label)
	assert.Equal(t, "#2e7d32", vm.CategoryInfo.TextColor)
}

func TestFormatScheduleStructured(t *testing.T) {
	a := models.Activity{
		Schedule: "ignored when structured",
		ScheduleDetails: &models.ScheduleDetails{
			Days: []string{"Monday", "Wednesday"}, StartTime: "15:30", EndTime: "17:05",
		},
	}
	assert.Equal(t, "Monday, Wednesday, 3:30 PM - 5:05 PM", FormatSchedule(a))
}

func TestFormatScheduleLegacy(t *testing.T) {
	a := models.Activity{Schedule: "Tuesdays and Thursdays, 7:00 AM - 8:00 AM"}
	assert.Equal(t, "Tuesdays and Thursdays, 7:00 AM - 8:00 AM", FormatSchedule(a))
}

func TestTo12Hour(t *testing.T) {
	cases := map[string]string{
		"00:00": "12:00 AM",
		"0:05":  "12:05 AM",
		"06:00": "6:00 AM",
		"11:59": "11:59 AM",
		"12:00": "12:00 PM",
		"12:30": "12:30 PM",
		"13:00": "1:00 PM",
		"23:45": "11:45 PM",
		"7:5":   "7:05 AM",
		"noon":  "noon",
		"25:00": "25:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, To12Hour(in), in)
	}
}
