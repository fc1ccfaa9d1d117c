package dto

import (
	"time"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Message        string     `json:"message" validate:"required"`
	StartDate      *time.Time `json:"start_date"`
	ExpirationDate time.Time  `json:"expiration_date" validate:"required"`
}

// UpdateAnnouncementRequest describes the update payload. A nil StartDate keeps the stored value;
// a nil Active re-activates the announcement.
type UpdateAnnouncementRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Message        string     `json:"message" validate:"required"`
	StartDate      *time.Time `json:"start_date"`
	ExpirationDate time.Time  `json:"expiration_date" validate:"required"`
	Active         *bool      `json:"active"`
}

// AnnouncementView adds the derived status to an announcement for management screens.
type AnnouncementView struct {
	models.Announcement
	Status models.AnnouncementStatus `json:"status"`
}
