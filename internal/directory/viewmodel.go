package directory

import "github.com/noah-isme/sma-activities-api/internal/models"

// CapacityStatus bands how full an activity is.
type CapacityStatus string

const (
	CapacityAvailable CapacityStatus = "available"
	CapacityNearFull  CapacityStatus = "near_full"
	CapacityFull      CapacityStatus = "full"
)

// NearFullThreshold is the fill percentage at which an activity is near full.
const NearFullThreshold = 75.0

// ViewModel carries the display-ready fields derived from one activity.
type ViewModel struct {
	Category           Category       `json:"category"`
	CategoryInfo       CategoryInfo   `json:"category_info"`
	FormattedSchedule  string         `json:"formatted_schedule"`
	TakenSpots         int            `json:"taken_spots"`
	TotalSpots         int            `json:"total_spots"`
	SpotsLeft          int            `json:"spots_left"`
	CapacityPercentage float64        `json:"capacity_percentage"`
	CapacityStatus     CapacityStatus `json:"capacity_status"`
}

// IsFull reports whether registration should be closed.
func (v ViewModel) IsFull() bool {
	return v.CapacityStatus == CapacityFull
}

// BuildViewModel derives the display fields for a single activity.
func BuildViewModel(a models.Activity) ViewModel {
	category := Classify(a.Name, a.Description)
	taken := len(a.Participants)
	total := a.MaxParticipants
	left := total - taken

	// zero or negative capacity reads as full
	percentage := 100.0
	if total > 0 {
		percentage = float64(taken) / float64(total) * 100
	}

	return ViewModel{
		Category:           category,
		CategoryInfo:       category.Info(),
		FormattedSchedule:  FormatSchedule(a),
		TakenSpots:         taken,
		TotalSpots:         total,
		SpotsLeft:          left,
		CapacityPercentage: percentage,
		CapacityStatus:     capacityStatus(left, percentage),
	}
}

func capacityStatus(spotsLeft int, percentage float64) CapacityStatus {
	switch {
	case spotsLeft <= 0:
		return CapacityFull
	case percentage >= NearFullThreshold:
		return CapacityNearFull
	default:
		return CapacityAvailable
	}
}
