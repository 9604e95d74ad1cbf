package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/routine-api/internal/api/shared"
	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/service"
	"github.com/phrazzld/routine-api/internal/store"
)

// SeriesHandler handles series-related HTTP requests
type SeriesHandler struct {
	seriesService service.SeriesService
	validator     *validator.Validate
}

// NewSeriesHandler creates a new SeriesHandler
func NewSeriesHandler(seriesService service.SeriesService) *SeriesHandler {
	return &SeriesHandler{
		seriesService: seriesService,
		validator:     validator.New(),
	}
}

// Create handles POST /api/series requests
func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Caller profile not found")
		return
	}

	var req CreateSeriesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := domain.ExpandInput{
		Title:          req.Title,
		Frequency:      req.Frequency,
		StartMonth:     req.StartMonth,
		EndMonth:       req.EndMonth,
		DueDate:        req.DueDate,
		Week:           req.Week,
		Quarter:        req.Quarter,
		Month:          req.Month,
		HalfYear:       req.HalfYear,
		TaskKind:       req.TaskKind,
		Assignees:      req.Assignee.Values,
		Status:         req.Status,
		Summary:        req.Summary,
		AttachmentLink: req.AttachmentLink,
	}

	series, occurrences, err := h.seriesService.Register(r.Context(), input, profile.Name, profile.DepartmentCD)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSeriesResponse{
		SeriesID:        series.ID,
		OccurrenceCount: len(occurrences),
	})
}

// List handles GET /api/series requests
func (h *SeriesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SeriesFilter{
		Assignee:   query.Get("assignee"),
		Registrant: query.Get("registrant"),
		StartFrom:  query.Get("start_from"),
		EndTo:      query.Get("end_to"),
		Department: query.Get("department_cd"),
		TaskKind:   domain.TaskKind(query.Get("task_kind")),
	}
	page := parsePage(query.Get("page"), query.Get("page_size"))

	result, hasNext, err := h.seriesService.List(r.Context(), filter, page)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	items := make([]SeriesResponse, 0, len(result))
	for _, series := range result {
		items = append(items, seriesToResponse(series))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PagedResponse{
		Items:    items,
		Page:     page.Number,
		PageSize: page.Size,
		HasNext:  hasNext,
	})
}

// Get handles GET /api/series/{id} requests
func (h *SeriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	series, err := h.seriesService.Get(r.Context(), id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, seriesToResponse(series))
}

// Update handles PATCH /api/series/{id} requests
func (h *SeriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateSeriesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	input := service.SeriesUpdateInput{
		Frequency:         req.Frequency,
		HalfYear:          req.HalfYear,
		DueDate:           req.DueDate,
		StartMonth:        req.StartMonth,
		EndMonth:          req.EndMonth,
		Year:              req.Year,
		Quarter:           req.Quarter,
		Month:             req.Month,
		WeekNum:           req.Week,
		Assignees:         req.Assignee.Values,
		AssigneesSet:      req.Assignee.Set,
		TaskKind:          req.TaskKind,
		Registrant:        req.Registrant,
		Status:            req.Status,
		Title:             req.Title,
		Summary:           req.Summary,
		PropagateAssignee: req.ApplyAssigneeToOccurrences,
	}

	if err := h.seriesService.Update(r.Context(), id, input); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/series/{id}/complete requests
func (h *SeriesHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.seriesService.Complete(r.Context(), id); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// callerProfile reads the resolved employee profile the auth middleware put
// on the context.
func callerProfile(r *http.Request) (*domain.EmployeeProfile, bool) {
	profile, ok := r.Context().Value(shared.ProfileContextKey).(*domain.EmployeeProfile)
	return profile, ok
}

// pathID parses the {id} path parameter, responding with 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// parsePage builds a Page from raw query values; Normalize applies bounds
// and defaults. A supplied size below 1 clamps to 1, while an absent or
// unparseable size falls through to the default.
func parsePage(rawPage, rawSize string) store.Page {
	page := store.Page{}
	if n, err := strconv.Atoi(rawPage); err == nil {
		page.Number = n
	}
	if n, err := strconv.Atoi(rawSize); err == nil {
		if n < 1 {
			n = 1
		}
		page.Size = n
	}
	return page.Normalize()
}
