package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-activities-api/internal/directory"
	"github.com/noah-isme/sma-activities-api/internal/dto"
	"github.com/noah-isme/sma-activities-api/internal/models"
	"github.com/noah-isme/sma-activities-api/internal/repository"
	appErrors "github.com/noah-isme/sma-activities-api/pkg/errors"
	"github.com/noah-isme/sma-activities-api/pkg/export"
)

const (
	activityCachePrefix  = "activities:list:"
	activityCachePattern = "activities:*"
)

type activityRepository interface {
	List(ctx context.Context, filter models.ActivityFilter) (models.Catalog, error)
	GetByName(ctx context.Context, name string) (*models.Activity, error)
	Days(ctx context.Context) ([]string, error)
	AddParticipant(ctx context.Context, name, email string) (bool, error)
	RemoveParticipant(ctx context.Context, name, email string) (bool, error)
}

// ActivityServiceConfig tunes caching and exports.
type ActivityServiceConfig struct {
	CacheTTL       time.Duration
	ExportsEnabled bool
	ExportTitle    string
}

// ActivityService serves the catalog, the filtered directory and registrations.
type ActivityService struct {
	repo      activityRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ActivityServiceConfig
	warmer    cacheWarmer

	// generation advances on every invalidation; reads that started earlier skip the cache write.
	generation atomic.Uint64
}

// cacheWarmer repopulates the unfiltered catalog after an invalidation.
type cacheWarmer interface {
	Trigger() bool
}

// NewActivityService constructs the service. cache and metrics may be nil.
func NewActivityService(repo activityRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config ActivityServiceConfig) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ExportTitle == "" {
		config.ExportTitle = "Extracurricular Activities"
	}
	registerDirectoryValidations(validate)
	return &ActivityService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, config: config}
}

// SetCacheWarmer registers a background refresher triggered after each invalidation.
func (s *ActivityService) SetCacheWarmer(w cacheWarmer) {
	s.warmer = w
}

// WarmCache loads the unfiltered catalog into the cache.
func (s *ActivityService) WarmCache(ctx context.Context) error {
	_, err := s.List(ctx, models.ActivityFilter{})
	return err
}

// List returns the catalog narrowed by the server-side filter. Results are read through the cache.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) (models.Catalog, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity filter")
	}
	filter.Day = normalizeWeekday(filter.Day)
	if filter.StartTime != "" && filter.EndTime != "" && filter.StartTime > filter.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must not be after end_time")
	}

	key := listCacheKey(filter)
	var cached models.Catalog
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	generation := s.generation.Load()
	catalog, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	if s.generation.Load() == generation {
		_ = s.cache.Set(ctx, key, catalog, s.config.CacheTTL)
	}
	return catalog, nil
}

// Directory applies the category, weekend and search predicates over the server-filtered catalog.
func (s *ActivityService) Directory(ctx context.Context, query dto.DirectoryQuery) (*dto.DirectoryResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid directory query")
	}
	category, _ := directory.ParseCategory(query.Category)
	timeRange, _ := directory.ParseTimeRange(query.TimeRange)

	filter := models.ActivityFilter{Day: query.Day}
	if window, ok := timeRange.Window(); ok {
		filter.StartTime = window.Start
		filter.EndTime = window.End
	}
	catalog, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	visible := directory.Filter(catalog, directory.Criteria{
		Category:    category,
		SearchQuery: query.Search,
		WeekendOnly: timeRange.Weekend(),
	})
	cards := make([]dto.ActivityCard, 0, len(visible))
	for _, activity := range visible {
		cards = append(cards, dto.NewActivityCard(activity))
	}

	s.metrics.RecordDirectoryQuery(string(category), string(timeRange), len(cards) == 0)
	return &dto.DirectoryResult{Activities: cards, Total: len(cards), NoResults: len(cards) == 0}, nil
}

// AvailableDays lists the weekdays used by any activity in calendar order.
func (s *ActivityService) AvailableDays(ctx context.Context) ([]string, error) {
	days, err := s.repo.Days(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity days")
	}
	rank := make(map[string]int, len(calendarDays))
	for i, d := range calendarDays {
		rank[d] = i
	}
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		day := normalizeWeekday(d)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, okI := rank[out[i]]
		rj, okJ := rank[out[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI != okJ:
			return okI
		default:
			return out[i] < out[j]
		}
	})
	return out, nil
}

// Signup registers a student for an activity on behalf of a teacher.
func (s *ActivityService) Signup(ctx context.Context, name string, req dto.SignupRequest, actor *models.JWTClaims) (*dto.ParticipantResponse, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required for this action")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	activity, err := s.loadActivity(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity.HasParticipant(req.Email) {
		s.metrics.RecordSignup("duplicate")
		return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "student is already signed up")
	}
	if directory.BuildViewModel(*activity).IsFull() {
		s.metrics.RecordSignup("full")
		return nil, appErrors.Clone(appErrors.ErrActivityFull, "activity is full")
	}

	added, err := s.repo.AddParticipant(ctx, name, req.Email)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		s.metrics.RecordSignup("duplicate")
		return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "student is already signed up")
	case errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign up student")
	case !added:
		s.metrics.RecordSignup("full")
		return nil, appErrors.Clone(appErrors.ErrActivityFull, "activity is full")
	}

	s.metrics.RecordSignup("ok")
	s.invalidate(ctx)
	s.logger.Info("student signed up",
		zap.String("activity", name),
		zap.String("email", req.Email),
		zap.String("teacher", actor.Username),
	)
	return &dto.ParticipantResponse{Activity: name, Email: req.Email, Message: fmt.Sprintf("Signed up %s for %s", req.Email, name)}, nil
}

// Unregister removes a student from an activity on behalf of a teacher.
func (s *ActivityService) Unregister(ctx context.Context, name, email string, actor *models.JWTClaims) (*dto.ParticipantResponse, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required for this action")
	}
	if _, err := s.loadActivity(ctx, name); err != nil {
		return nil, err
	}
	removed, err := s.repo.RemoveParticipant(ctx, name, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unregister student")
	}
	if !removed {
		return nil, appErrors.Clone(appErrors.ErrNotRegistered, "student is not signed up for this activity")
	}

	s.invalidate(ctx)
	s.logger.Info("student unregistered",
		zap.String("activity", name),
		zap.String("email", email),
		zap.String("teacher", actor.Username),
	)
	return &dto.ParticipantResponse{Activity: name, Email: email, Message: fmt.Sprintf("Unregistered %s from %s", email, name)}, nil
}

// Export renders the directory view for query as a downloadable document.
func (s *ActivityService) Export(ctx context.Context, query dto.DirectoryQuery, format string) ([]byte, string, string, error) {
	if !s.config.ExportsEnabled {
		return nil, "", "", appErrors.Clone(appErrors.ErrExportDisabled, "exports are disabled")
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}
	result, err := s.Directory(ctx, query)
	if err != nil {
		return nil, "", "", err
	}

	table := export.Table{
		Title:   s.config.ExportTitle,
		Headers: []string{"Activity", "Category", "Schedule", "Enrolled", "Capacity", "Spots Left", "Status"},
		Rows:    make([][]string, 0, len(result.Activities)),
	}
	for _, card := range result.Activities {
		table.Rows = append(table.Rows, []string{
			card.Name,
			card.CategoryInfo.Label,
			card.FormattedSchedule,
			strconv.Itoa(card.TakenSpots),
			strconv.Itoa(card.TotalSpots),
			strconv.Itoa(card.SpotsLeft),
			string(card.CapacityStatus),
		})
	}
	body, err := exporter.Render(table)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := "activities-" + time.Now().UTC().Format("20060102") + "." + exporter.Extension()
	return body, filename, exporter.ContentType(), nil
}

func (s *ActivityService) loadActivity(ctx context.Context, name string) (*models.Activity, error) {
	activity, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

func (s *ActivityService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.Invalidate(ctx, activityCachePattern); err != nil {
		s.logger.Warn("activity cache not invalidated", zap.Error(err))
		return
	}
	if s.warmer != nil && s.cache.Enabled() {
		s.warmer.Trigger()
	}
}

func listCacheKey(filter models.ActivityFilter) string {
	return activityCachePrefix + filter.Day + ":" + filter.StartTime + ":" + filter.EndTime
}
