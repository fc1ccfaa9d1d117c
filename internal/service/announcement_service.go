package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-activities-api/internal/dto"
	"github.com/noah-isme/sma-activities-api/internal/models"
	appErrors "github.com/noah-isme/sma-activities-api/pkg/errors"
)

type announcementRepository interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error)
	ListAll(ctx context.Context) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// ListActive returns the announcements currently visible to everyone.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]models.Announcement, error) {
	rows, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return rows, nil
}

// ListAll returns every announcement with its derived status.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]dto.AnnouncementView, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	now := s.now().UTC()
	views := make([]dto.AnnouncementView, 0, len(rows))
	for _, row := range rows {
		views = append(views, dto.AnnouncementView{Announcement: row, Status: row.StatusAt(now)})
	}
	return views, nil
}

// Create publishes a new announcement authored by actor.
func (s *AnnouncementService) Create(ctx context.Context, req dto.CreateAnnouncementRequest, actor *models.JWTClaims) (*models.Announcement, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	now := s.now().UTC()
	if err := validateExpiration(req.ExpirationDate, now); err != nil {
		return nil, err
	}
	start := now
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}

	announcement := &models.Announcement{
		Title:          strings.TrimSpace(req.Title),
		Message:        req.Message,
		StartDate:      &start,
		ExpirationDate: req.ExpirationDate.UTC(),
		CreatedBy:      actor.Username,
		CreatedAt:      now,
		Active:         true,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.logger.Info("announcement created", zap.String("id", announcement.ID), zap.String("teacher", actor.Username))
	return announcement, nil
}

// Update modifies an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req dto.UpdateAnnouncementRequest, actor *models.JWTClaims) (*models.Announcement, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if err := validateAnnouncementID(id); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateExpiration(req.ExpirationDate, s.now().UTC()); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	existing.Title = strings.TrimSpace(req.Title)
	existing.Message = req.Message
	existing.ExpirationDate = req.ExpirationDate.UTC()
	if req.StartDate != nil {
		start := req.StartDate.UTC()
		existing.StartDate = &start
	}
	existing.Active = req.Active == nil || *req.Active

	ok, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return existing, nil
}

// Delete removes an announcement by id.
func (s *AnnouncementService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if err := validateAnnouncementID(id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	s.logger.Info("announcement deleted", zap.String("id", id), zap.String("teacher", actor.Username))
	return nil
}

func validateAnnouncementID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement id")
	}
	return nil
}

func validateExpiration(expiration, now time.Time) error {
	if !expiration.After(now) {
		return appErrors.Clone(appErrors.ErrValidation, "expiration date must be in the future")
	}
	return nil
}
