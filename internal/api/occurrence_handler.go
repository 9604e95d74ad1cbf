package api

import (
	"net/http"

	"github.com/phrazzld/routine-api/internal/api/shared"
	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/service"
	"github.com/phrazzld/routine-api/internal/store"
)

// OccurrenceHandler handles occurrence-related HTTP requests
type OccurrenceHandler struct {
	occurrenceService service.OccurrenceService
}

// NewOccurrenceHandler creates a new OccurrenceHandler
func NewOccurrenceHandler(occurrenceService service.OccurrenceService) *OccurrenceHandler {
	return &OccurrenceHandler{
		occurrenceService: occurrenceService,
	}
}

// List handles GET /api/occurrences requests
func (h *OccurrenceHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.OccurrenceFilter{
		TaskKind: domain.TaskKind(query.Get("task_kind")),
	}
	page := parsePage(query.Get("page"), query.Get("page_size"))

	result, hasNext, err := h.occurrenceService.List(r.Context(), filter, page)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	items := make([]OccurrenceResponse, 0, len(result))
	for _, view := range result {
		items = append(items, occurrenceToResponse(view))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PagedResponse{
		Items:    items,
		Page:     page.Number,
		PageSize: page.Size,
		HasNext:  hasNext,
	})
}

// Update handles PATCH /api/occurrences/{id} requests
func (h *OccurrenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateOccurrenceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	input := service.OccurrenceUpdateInput{
		DueDate:      req.DueDate,
		Status:       req.Status,
		Summary:      req.Summary,
		Title:        req.Title,
		Assignees:    req.Assignee.Values,
		AssigneesSet: req.Assignee.Set,
	}

	if err := h.occurrenceService.Update(r.Context(), id, input); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/occurrences/{id}/complete requests
func (h *OccurrenceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.occurrenceService.Complete(r.Context(), id); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
