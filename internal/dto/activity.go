package dto

import (
	"github.com/noah-isme/sma-activities-api/internal/directory"
	"github.com/noah-isme/sma-activities-api/internal/models"
)

// DirectoryQuery is the full set of directory selections for one request.
type DirectoryQuery struct {
	Day       string `form:"day" json:"day" validate:"omitempty,weekday"`
	TimeRange string `form:"time_range" json:"time_range" validate:"omitempty,timerange"`
	Category  string `form:"category" json:"category" validate:"omitempty,category"`
	Search    string `form:"search" json:"search" validate:"max=200"`
}

// ActivityCard is one activity as rendered in the directory.
type ActivityCard struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Schedule        string                  `json:"schedule"`
	ScheduleDetails *models.ScheduleDetails `json:"schedule_details,omitempty"`
	MaxParticipants int                     `json:"max_participants"`
	Participants    []string                `json:"participants"`
	directory.ViewModel
}

// NewActivityCard pairs an activity with its view model.
func NewActivityCard(activity models.Activity) ActivityCard {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityCard{
		Name:            activity.Name,
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		ScheduleDetails: activity.ScheduleDetails,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
		ViewModel:       directory.BuildViewModel(activity),
	}
}

// DirectoryResult is the filtered, display-ready directory.
type DirectoryResult struct {
	Activities []ActivityCard `json:"activities"`
	Total      int            `json:"total"`
	NoResults  bool           `json:"no_results"`
}

// SignupRequest registers a student email for an activity.
type SignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ParticipantResponse echoes a registration change.
type ParticipantResponse struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}
