package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"conferencehub/internal/delivery/http/helpers"
	"conferencehub/internal/delivery/http/middleware"
	"conferencehub/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// SyncSourceRequest configures a synchronization source on a conference.
// Exactly one of api_key or url must be set.
type SyncSourceRequest struct {
	Type   string `json:"type"`
	APIKey string `json:"api_key"`
	URL    string `json:"url"`
}

// Validate implements Validator.
func (s SyncSourceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Type) == "" {
		errs = append(errs, "type is required")
	}
	hasKey := strings.TrimSpace(s.APIKey) != ""
	hasURL := strings.TrimSpace(s.URL) != ""
	if !hasKey && !hasURL {
		errs = append(errs, "either api_key or url is required")
	}
	if hasKey && hasURL {
		errs = append(errs, "api_key and url are mutually exclusive")
	}
	return errs
}

func (s SyncSourceRequest) toDomain() (*domain.SynchronizationSource, error) {
	srcType := domain.SyncSourceType(strings.TrimSpace(strings.ToLower(s.Type)))
	if key := strings.TrimSpace(s.APIKey); key != "" {
		return domain.NewSyncSourceWithAPIKey(srcType, key)
	}
	return domain.NewSyncSourceWithURL(srcType, strings.TrimSpace(s.URL))
}

// CreateConferenceRequest is the request body for POST /conferences.
type CreateConferenceRequest struct {
	Title      string             `json:"title"`
	City       string             `json:"city"`
	Country    string             `json:"country"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	ImageURL   string             `json:"image_url"`
	SyncSource *SyncSourceRequest `json:"sync_source"`
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if c.EndDate.IsZero() {
		errs = append(errs, "end_date is required")
	}
	if c.SyncSource != nil {
		errs = append(errs, c.SyncSource.Validate()...)
	}
	return errs
}

// CreateConferenceSuccessResponse is the success response envelope for POST /conferences (201).
type CreateConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ConferenceController struct {
	Logger      *slog.Logger
	Service     domain.ConferenceService
	SyncService domain.SynchronizationService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService, syncSvc domain.SynchronizationService) *ConferenceController {
	return &ConferenceController{
		Logger:      logger,
		Service:     svc,
		SyncService: syncSvc,
	}
}

// CreateConference godoc
// @Summary Create a new conference
// @Description Create a conference with title, city, country, and date range. The authenticated user becomes the owner. An optional sync_source (type "sessionize" with api_key or url) schedules an immediate background synchronization.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateConferenceRequest true "Conference data"
// @Success 201 {object} controllers.CreateConferenceSuccessResponse "data contains the created conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conference, err := domain.NewConference(ownerID, strings.TrimSpace(req.Title), strings.TrimSpace(req.City), strings.TrimSpace(req.Country), req.StartDate, req.EndDate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	conference.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.SyncSource != nil {
		src, err := req.SyncSource.toDomain()
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		conference.ConfigureSynchronizationSource(src)
	}
	if err := c.Service.CreateConference(r.Context(), conference); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conference)
}

// GetConferenceSuccessResponse is the success response envelope for GET /conferences/{conferenceID} (200).
type GetConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// GetConference godoc
// @Summary Get a conference by ID
// @Description Returns the conference with its rooms, speakers, and presentations. Requires authentication.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} controllers.GetConferenceSuccessResponse "data contains the full conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	if !uuidRegex.MatchString(conferenceID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceID")
		return
	}
	_, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conference, err := c.Service.GetConferenceByID(r.Context(), conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// ListMyConferencesResponse is the data payload for GET /conferences/me (200).
type ListMyConferencesResponse struct {
	Items      []*domain.Conference   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMyConferencesSuccessResponse is the success response envelope for GET /conferences/me (200).
type ListMyConferencesSuccessResponse struct {
	Data  ListMyConferencesResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListMyConferences godoc
// @Summary List conferences owned by the current user
// @Description Returns a paginated list of conferences where the authenticated user is the owner. Use page and page_size query params.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMyConferencesSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/me [get]
func (c *ConferenceController) ListMyConferences(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	conferences, total, err := c.Service.ListMyConferences(r.Context(), ownerID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if conferences == nil {
		conferences = []*domain.Conference{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMyConferencesResponse{Items: conferences, Pagination: meta})
}

// ConfigureSyncSourceRequest is the request body for PUT /conferences/{conferenceID}/sync-source.
// A null source clears the configuration.
type ConfigureSyncSourceRequest struct {
	Source *SyncSourceRequest `json:"source"`
}

// Validate implements Validator.
func (c ConfigureSyncSourceRequest) Validate() []string {
	if c.Source == nil {
		return nil
	}
	return c.Source.Validate()
}

// ConfigureSyncSourceSuccessResponse is the success response envelope for PUT /conferences/{conferenceID}/sync-source (200).
type ConfigureSyncSourceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ConfigureSyncSource godoc
// @Summary Configure the synchronization source for a conference
// @Description Sets the external schedule source (type "sessionize" with api_key or url) on the conference, or clears it when source is null. Only the conference owner can configure.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Param body body ConfigureSyncSourceRequest true "Source to configure, or null to clear"
// @Success 200 {object} controllers.ConfigureSyncSourceSuccessResponse "data contains the updated conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sync-source [put]
func (c *ConferenceController) ConfigureSyncSource(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	var req ConfigureSyncSourceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var src *domain.SynchronizationSource
	if req.Source != nil {
		var err error
		src, err = req.Source.toDomain()
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
	}
	if err := c.Service.ConfigureSyncSource(r.Context(), conferenceID, userID, src); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	conference, err := c.Service.GetConferenceByID(r.Context(), conferenceID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// SynchronizeSuccessResponse is the success response envelope for POST /conferences/{conferenceID}/sync (200).
type SynchronizeSuccessResponse struct {
	Data  *domain.SyncReport `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Synchronize godoc
// @Summary Synchronize a conference with its external schedule source
// @Description Fetches speakers and the schedule grid from the configured source and merges them into the conference. Safe to run repeatedly: unchanged upstream data adds nothing. Returns a report with entity counts; skipped is true when no source is configured. Only the conference owner can trigger.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID (UUID)"
// @Success 200 {object} controllers.SynchronizeSuccessResponse "data contains the synchronization report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID}/sync [post]
func (c *ConferenceController) Synchronize(w http.ResponseWriter, r *http.Request) {
	conferenceID := r.PathValue("conferenceID")
	if conferenceID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conference, err := c.Service.GetConferenceByID(r.Context(), conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if conference.OwnerID != userID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	report, err := c.SyncService.Synchronize(r.Context(), conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
