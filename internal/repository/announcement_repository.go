package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

const announcementColumns = "id, title, message, start_date, expiration_date, created_by, created_at, active"

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// ListActive returns announcements visible at now, newest first.
func (r *AnnouncementRepository) ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements
WHERE active = TRUE AND expiration_date > $1 AND (start_date IS NULL OR start_date <= $1)
ORDER BY created_at DESC`
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, now); err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}
	return announcements, nil
}

// ListAll returns every announcement, newest first.
func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC`
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// GetByID returns one announcement or sql.ErrNoRows.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts an announcement, assigning the id and creation time when absent.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO announcements (` + announcementColumns + `)
VALUES (:id, :title, :message, :start_date, :expiration_date, :created_by, :created_at, :active)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields and reports whether the row existed.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) (bool, error) {
	const query = `UPDATE announcements SET title = :title, message = :message, start_date = :start_date,
expiration_date = :expiration_date, active = :active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, announcement)
	if err != nil {
		return false, fmt.Errorf("update announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update announcement rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes an announcement and reports whether it existed.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete announcement rows: %w", err)
	}
	return affected > 0, nil
}
