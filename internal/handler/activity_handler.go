package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-activities-api/internal/dto"
	"github.com/noah-isme/sma-activities-api/internal/middleware"
	"github.com/noah-isme/sma-activities-api/internal/models"
	appErrors "github.com/noah-isme/sma-activities-api/pkg/errors"
	"github.com/noah-isme/sma-activities-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, filter models.ActivityFilter) (models.Catalog, error)
	Directory(ctx context.Context, query dto.DirectoryQuery) (*dto.DirectoryResult, error)
	AvailableDays(ctx context.Context) ([]string, error)
	Signup(ctx context.Context, name string, req dto.SignupRequest, actor *models.JWTClaims) (*dto.ParticipantResponse, error)
	Unregister(ctx context.Context, name, email string, actor *models.JWTClaims) (*dto.ParticipantResponse, error)
	Export(ctx context.Context, query dto.DirectoryQuery, format string) ([]byte, string, string, error)
}

// ActivityHandler exposes the activity catalog, directory and registration endpoints.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler builds a new handler.
func NewActivityHandler(service activityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List godoc
// @Summary List activities
// @Description Returns the catalog keyed by activity name, optionally narrowed by day and time window
// @Tags Activities
// @Produce json
// @Param day query string false "Weekday, e.g. Monday"
// @Param start_time query string false "Earliest start time (HH:MM)"
// @Param end_time query string false "Latest end time (HH:MM)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	catalog, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, catalog, nil)
}

// Days godoc
// @Summary List days with activities
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activities/days [get]
func (h *ActivityHandler) Days(c *gin.Context) {
	days, err := h.service.AvailableDays(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// Directory godoc
// @Summary Browse the activity directory
// @Description Filters by category, weekend and free-text search and returns display-ready cards
// @Tags Activities
// @Produce json
// @Param day query string false "Weekday"
// @Param time_range query string false "morning, afternoon or weekend"
// @Param category query string false "all, sports, arts, academic, community or technology"
// @Param search query string false "Case-insensitive text search"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /activities/directory [get]
func (h *ActivityHandler) Directory(c *gin.Context) {
	var query dto.DirectoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	result, err := h.service.Directory(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", result.Total)
	middleware.SetMeta(c, "no_results", result.NoResults)
	response.JSON(c, http.StatusOK, result.Activities, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the activity directory
// @Tags Activities
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param day query string false "Weekday"
// @Param time_range query string false "morning, afternoon or weekend"
// @Param category query string false "Category filter"
// @Param search query string false "Text search"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /activities/directory/export [get]
func (h *ActivityHandler) Export(c *gin.Context) {
	var query dto.DirectoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	body, filename, contentType, err := h.service.Export(c.Request.Context(), query, strings.ToLower(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, filename, contentType, body)
}

// Signup godoc
// @Summary Sign a student up for an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Activity name"
// @Param payload body dto.SignupRequest true "Student email"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/{name}/signup [post]
func (h *ActivityHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}
	res, err := h.service.Signup(c.Request.Context(), c.Param("name"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Unregister godoc
// @Summary Remove a student from an activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param name path string true "Activity name"
// @Param email path string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{name}/participants/{email} [delete]
func (h *ActivityHandler) Unregister(c *gin.Context) {
	res, err := h.service.Unregister(c.Request.Context(), c.Param("name"), c.Param("email"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
