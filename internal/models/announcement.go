package models

import "time"

// AnnouncementStatus is derived from the active flag and the date window.
type AnnouncementStatus string

const (
	AnnouncementStatusActive    AnnouncementStatus = "active"
	AnnouncementStatusInactive  AnnouncementStatus = "inactive"
	AnnouncementStatusExpired   AnnouncementStatus = "expired"
	AnnouncementStatusScheduled AnnouncementStatus = "scheduled"
)

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID             string     `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	StartDate      *time.Time `db:"start_date" json:"start_date,omitempty"`
	ExpirationDate time.Time  `db:"expiration_date" json:"expiration_date"`
	CreatedBy      string     `db:"created_by" json:"created_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	Active         bool       `db:"active" json:"active"`
}

// StatusAt reports how the announcement appears at now.
func (a Announcement) StatusAt(now time.Time) AnnouncementStatus {
	switch {
	case !a.Active:
		return AnnouncementStatusInactive
	case !a.ExpirationDate.After(now):
		return AnnouncementStatusExpired
	case a.StartDate != nil && a.StartDate.After(now):
		return AnnouncementStatusScheduled
	default:
		return AnnouncementStatusActive
	}
}

// VisibleAt reports whether the announcement belongs in the public banner at now.
func (a Announcement) VisibleAt(now time.Time) bool {
	return a.StatusAt(now) == AnnouncementStatusActive
}
