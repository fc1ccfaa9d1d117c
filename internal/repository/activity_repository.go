package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-activities-api/internal/models"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

const activitySelect = `SELECT a.name, a.description, a.schedule, a.days, a.start_time, a.end_time, a.max_participants,
COALESCE(array_agg(p.email ORDER BY p.registered_at, p.email) FILTER (WHERE p.email IS NOT NULL), '{}') AS participants
FROM activities a
LEFT JOIN activity_participants p ON p.activity_name = a.name`

type activityRow struct {
	Name            string         `db:"name"`
	Description     sql.NullString `db:"description"`
	Schedule        sql.NullString `db:"schedule"`
	Days            pq.StringArray `db:"days"`
	StartTime       sql.NullString `db:"start_time"`
	EndTime         sql.NullString `db:"end_time"`
	MaxParticipants int            `db:"max_participants"`
	Participants    pq.StringArray `db:"participants"`
}

func (r activityRow) toModel() models.Activity {
	activity := models.Activity{
		Name:            r.Name,
		Description:     r.Description.String,
		Schedule:        r.Schedule.String,
		MaxParticipants: r.MaxParticipants,
		Participants:    []string(r.Participants),
	}
	if activity.Participants == nil {
		activity.Participants = []string{}
	}
	if r.Days != nil && r.StartTime.Valid && r.EndTime.Valid {
		activity.ScheduleDetails = &models.ScheduleDetails{
			Days:      []string(r.Days),
			StartTime: r.StartTime.String,
			EndTime:   r.EndTime.String,
		}
	}
	return activity
}

// ActivityRepository provides persistence for activities and their participants.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns the catalog, narrowed by day and time window when requested.
// Activities without structured schedule data never match a day or time restriction.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) (models.Catalog, error) {
	var where []string
	var args []interface{}
	if filter.Day != "" {
		args = append(args, filter.Day)
		where = append(where, fmt.Sprintf("$%d = ANY(a.days)", len(args)))
	}
	if filter.StartTime != "" {
		args = append(args, filter.StartTime)
		where = append(where, fmt.Sprintf("a.start_time >= $%d", len(args)))
	}
	if filter.EndTime != "" {
		args = append(args, filter.EndTime)
		where = append(where, fmt.Sprintf("a.end_time <= $%d", len(args)))
	}

	query := activitySelect
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nGROUP BY a.name\nORDER BY a.created_at, a.name"

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	catalog := make(models.Catalog, 0, len(rows))
	for _, row := range rows {
		catalog = append(catalog, row.toModel())
	}
	return catalog, nil
}

// GetByName returns a single activity. sql.ErrNoRows is returned unwrapped when missing.
func (r *ActivityRepository) GetByName(ctx context.Context, name string) (*models.Activity, error) {
	query := activitySelect + "\nWHERE a.name = $1\nGROUP BY a.name"
	var row activityRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		return nil, err
	}
	activity := row.toModel()
	return &activity, nil
}

// Days returns every weekday referenced by a structured schedule.
func (r *ActivityRepository) Days(ctx context.Context) ([]string, error) {
	var days []string
	if err := r.db.SelectContext(ctx, &days, `SELECT DISTINCT unnest(days) AS day FROM activities WHERE days IS NOT NULL`); err != nil {
		return nil, fmt.Errorf("list activity days: %w", err)
	}
	return days, nil
}

// AddParticipant registers email while capacity remains. The activity row is locked
// for the duration so concurrent signups for the last spot serialise. It reports false
// when the activity is full and ErrDuplicate when email is already registered.
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin signup transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var capacity int
	if err := tx.GetContext(ctx, &capacity, `SELECT max_participants FROM activities WHERE name = $1 FOR UPDATE`, name); err != nil {
		return false, fmt.Errorf("lock activity: %w", err)
	}
	var taken int
	if err := tx.GetContext(ctx, &taken, `SELECT COUNT(*) FROM activity_participants WHERE activity_name = $1`, name); err != nil {
		return false, fmt.Errorf("count participants: %w", err)
	}
	if taken >= capacity {
		return false, nil
	}

	const insertQuery = `INSERT INTO activity_participants (activity_name, email, registered_at) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertQuery, name, email, time.Now().UTC()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, ErrDuplicate
		}
		return false, fmt.Errorf("add participant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit signup: %w", err)
	}
	return true, nil
}

// RemoveParticipant unregisters email. It reports whether a registration existed.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM activity_participants WHERE activity_name = $1 AND email = $2", name, email)
	if err != nil {
		return false, fmt.Errorf("remove participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove participant rows: %w", err)
	}
	return affected > 0, nil
}
