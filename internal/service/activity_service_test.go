package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-activities-api/internal/directory"
	"github.com/noah-isme/sma-activities-api/internal/dto"
	"github.com/noah-isme/sma-activities-api/internal/models"
	"github.com/noah-isme/sma-activities-api/internal/repository"
	appErrors "github.com/noah-isme/sma-activities-api/pkg/errors"
)

type mockActivityRepo struct {
	catalog     models.Catalog
	days        []string
	listCalls   int
	lastFilter  models.ActivityFilter
	listErr     error
	addResult   bool
	addErr      error
	removed     bool
	addedEmails []string
	onList      func()
}

func (m *mockActivityRepo) List(ctx context.Context, filter models.ActivityFilter) (models.Catalog, error) {
	m.listCalls++
	m.lastFilter = filter
	if m.onList != nil {
		m.onList()
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.catalog, nil
}

func (m *mockActivityRepo) GetByName(ctx context.Context, name string) (*models.Activity, error) {
	activity, ok := m.catalog.Find(name)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &activity, nil
}

func (m *mockActivityRepo) Days(ctx context.Context) ([]string, error) {
	return m.days, nil
}

func (m *mockActivityRepo) AddParticipant(ctx context.Context, name, email string) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	if m.addResult {
		m.addedEmails = append(m.addedEmails, email)
	}
	return m.addResult, nil
}

func (m *mockActivityRepo) RemoveParticipant(ctx context.Context, name, email string) (bool, error) {
	return m.removed, nil
}

func serviceCatalog() models.Catalog {
	return models.Catalog{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			ScheduleDetails: &models.ScheduleDetails{Days: []string{"Friday"}, StartTime: "15:30", EndTime: "17:00"},
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Saturdays, 9:00 AM - 11:00 AM",
			ScheduleDetails: &models.ScheduleDetails{Days: []string{"Saturday"}, StartTime: "09:00", EndTime: "11:00"},
			MaxParticipants: 2,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Art Club",
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:15 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{},
		},
	}
}

func newActivityFixture(exports bool) (*ActivityService, *mockActivityRepo, *memoryCacheRepo, *MetricsService) {
	repo := &mockActivityRepo{catalog: serviceCatalog(), addResult: true, removed: true}
	cacheRepo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, 0, nil, true)
	svc := NewActivityService(repo, cache, metrics, nil, nil, ActivityServiceConfig{ExportsEnabled: exports})
	return svc, repo, cacheRepo, metrics
}

var teacherActor = &models.JWTClaims{Username: "mrodriguez", Role: models.RoleTeacher}

func TestActivityServiceListUsesCache(t *testing.T) {
	svc, repo, _, _ := newActivityFixture(false)
	ctx := context.Background()

	first, err := svc.List(ctx, models.ActivityFilter{Day: "friday"})
	require.NoError(t, err)
	second, err := svc.List(ctx, models.ActivityFilter{Day: "Friday"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, "Friday", repo.lastFilter.Day)
	assert.Equal(t, first.Names(), second.Names())
}

func TestActivityServiceListValidation(t *testing.T) {
	svc, _, _, _ := newActivityFixture(false)

	_, err := svc.List(context.Background(), models.ActivityFilter{Day: "Funday"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.List(context.Background(), models.ActivityFilter{StartTime: "3pm"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.List(context.Background(), models.ActivityFilter{StartTime: "18:00", EndTime: "15:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestActivityServiceListRepoError(t *testing.T) {
	svc, repo, _, _ := newActivityFixture(false)
	repo.listErr = errors.New("db down")

	_, err := svc.List(context.Background(), models.ActivityFilter{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestActivityServiceDirectoryTimeWindow(t *testing.T) {
	svc, repo, _, _ := newActivityFixture(false)

	_, err := svc.Directory(context.Background(), dto.DirectoryQuery{TimeRange: "afternoon", Day: "Friday"})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityFilter{Day: "Friday", StartTime: "15:00", EndTime: "18:00"}, repo.lastFilter)
}

func TestActivityServiceDirectoryFilters(t *testing.T) {
	svc, _, _, metrics := newActivityFixture(false)
	ctx := context.Background()

	res, err := svc.Directory(ctx, dto.DirectoryQuery{TimeRange: "weekend"})
	require.NoError(t, err)
	names := make([]string, 0, len(res.Activities))
	for _, card := range res.Activities {
		names = append(names, card.Name)
	}
	// Art Club has no structured days and stays visible
	assert.Equal(t, []string{"Soccer Team", "Art Club"}, names)
	assert.Equal(t, directory.CapacityFull, res.Activities[0].CapacityStatus)

	res, err = svc.Directory(ctx, dto.DirectoryQuery{Category: "arts"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Art Club", res.Activities[0].Name)
	assert.Equal(t, "Arts", res.Activities[0].CategoryInfo.Label)

	res, err = svc.Directory(ctx, dto.DirectoryQuery{Search: "robotics"})
	require.NoError(t, err)
	assert.True(t, res.NoResults)
	assert.NotNil(t, res.Activities)

	assert.Equal(t, uint64(3), metrics.Snapshot().DirectoryQueries)
	assert.Equal(t, uint64(1), metrics.Snapshot().DirectoryEmptyResults)
}

func TestActivityServiceDirectoryRejectsUnknownCategory(t *testing.T) {
	svc, _, _, _ := newActivityFixture(false)

	_, err := svc.Directory(context.Background(), dto.DirectoryQuery{Category: "cooking"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Directory(context.Background(), dto.DirectoryQuery{TimeRange: "midnight"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestActivityServiceAvailableDays(t *testing.T) {
	svc, repo, _, _ := newActivityFixture(false)
	repo.days = []string{"Saturday", "friday", "Monday", "Friday"}

	days, err := svc.AvailableDays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Friday", "Saturday"}, days)
}

func TestActivityServiceSignup(t *testing.T) {
	svc, repo, cacheRepo, metrics := newActivityFixture(false)
	ctx := context.Background()
	_, err := svc.List(ctx, models.ActivityFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, cacheRepo.items)

	res, err := svc.Signup(ctx, "Chess Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	require.NoError(t, err)
	assert.Equal(t, "Signed up emma@mergington.edu for Chess Club", res.Message)
	assert.Equal(t, []string{"emma@mergington.edu"}, repo.addedEmails)
	assert.Empty(t, cacheRepo.items)
	assert.Equal(t, []string{"activities:*"}, cacheRepo.invalidated)
	assert.Equal(t, uint64(1), metrics.Snapshot().Signups)
}

func TestActivityServiceSignupErrors(t *testing.T) {
	svc, repo, _, _ := newActivityFixture(false)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Chess Club", dto.SignupRequest{Email: "emma@mergington.edu"}, nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Signup(ctx, "Chess Club", dto.SignupRequest{Email: "not-an-email"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Signup(ctx, "Knitting", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Signup(ctx, "Chess Club", dto.SignupRequest{Email: "michael@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyRegistered)

	_, err = svc.Signup(ctx, "Soccer Team", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrActivityFull)
	assert.Equal(t, 409, appErrors.FromError(err).Status)

	repo.addResult = false
	_, err = svc.Signup(ctx, "Art Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrActivityFull)

	repo.addErr = repository.ErrDuplicate
	_, err = svc.Signup(ctx, "Art Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyRegistered)

	repo.addErr = fmt.Errorf("lock activity: %w", sql.ErrNoRows)
	_, err = svc.Signup(ctx, "Art Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestActivityServiceUnregister(t *testing.T) {
	svc, repo, cacheRepo, _ := newActivityFixture(false)
	ctx := context.Background()

	res, err := svc.Unregister(ctx, "Chess Club", "michael@mergington.edu", teacherActor)
	require.NoError(t, err)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", res.Message)
	assert.Len(t, cacheRepo.invalidated, 1)

	repo.removed = false
	_, err = svc.Unregister(ctx, "Chess Club", "ghost@mergington.edu", teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrNotRegistered)

	_, err = svc.Unregister(ctx, "Knitting", "ghost@mergington.edu", teacherActor)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

type countingWarmer struct{ triggers int }

func (w *countingWarmer) Trigger() bool {
	w.triggers++
	return true
}

func TestActivityServiceWarmsCacheAfterInvalidation(t *testing.T) {
	svc, repo, cacheRepo, _ := newActivityFixture(false)
	warmer := &countingWarmer{}
	svc.SetCacheWarmer(warmer)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Art Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
	require.NoError(t, err)
	assert.Equal(t, 1, warmer.triggers)
	assert.Empty(t, cacheRepo.items)

	require.NoError(t, svc.WarmCache(ctx))
	assert.Len(t, cacheRepo.items, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestActivityServiceListSkipsCacheWriteAfterConcurrentSignup(t *testing.T) {
	svc, repo, cacheRepo, _ := newActivityFixture(false)
	ctx := context.Background()
	repo.onList = func() {
		repo.onList = nil
		_, err := svc.Signup(ctx, "Art Club", dto.SignupRequest{Email: "emma@mergington.edu"}, teacherActor)
		require.NoError(t, err)
	}

	_, err := svc.List(ctx, models.ActivityFilter{})
	require.NoError(t, err)
	assert.Empty(t, cacheRepo.items)

	_, err = svc.List(ctx, models.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Len(t, cacheRepo.items, 1)
}

func TestActivityServiceExport(t *testing.T) {
	svc, _, _, _ := newActivityFixture(true)

	body, filename, contentType, err := svc.Export(context.Background(), dto.DirectoryQuery{Category: "sports"}, "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", contentType)
	assert.Contains(t, string(body), "Soccer Team,Sports,\"Saturday, 9:00 AM - 11:00 AM\",2,2,0,full")
	assert.NotContains(t, string(body), "Chess Club")

	_, _, _, err = svc.Export(context.Background(), dto.DirectoryQuery{}, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestActivityServiceExportDisabled(t *testing.T) {
	svc, _, _, _ := newActivityFixture(false)

	_, _, _, err := svc.Export(context.Background(), dto.DirectoryQuery{}, "pdf")
	assert.ErrorIs(t, err, appErrors.ErrExportDisabled)
}
