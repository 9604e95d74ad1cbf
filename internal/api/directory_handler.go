package api

import (
	"net/http"

	"github.com/phrazzld/routine-api/internal/api/shared"
	"github.com/phrazzld/routine-api/internal/store"
)

// DirectoryHandler serves the read-only employee and department directory.
type DirectoryHandler struct {
	directory store.DirectoryStore
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directory store.DirectoryStore) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
	}
}

// Me handles GET /api/me requests, returning the caller's resolved profile.
func (h *DirectoryHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Caller profile not found")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		EmployeeID:     profile.EmployeeID,
		Name:           profile.Name,
		Login:          profile.Login,
		DepartmentCD:   profile.DepartmentCD,
		DepartmentName: profile.DepartmentName,
		IsApprovalDept: profile.IsApprovalDept,
	})
}

// ListDepartments handles GET /api/departments requests
func (h *DirectoryHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directory.ListDepartments(r.Context())
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	items := make([]DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, DepartmentResponse{
			Code:           dept.Code,
			Name:           dept.Name,
			IsApprovalDept: dept.IsApprovalDept,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// ListEmployees handles GET /api/employees requests. Without an explicit
// department_cd, the caller's own department is listed.
func (h *DirectoryHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	departmentCD := query.Get("department_cd")
	if departmentCD == "" {
		profile, ok := callerProfile(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Caller profile not found")
			return
		}
		departmentCD = profile.DepartmentCD
	}
	employeesOnly := query.Get("employees_only") != "false"

	members, err := h.directory.ListDepartmentMembers(r.Context(), departmentCD, employeesOnly)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	items := make([]EmployeeResponse, 0, len(members))
	for _, emp := range members {
		items = append(items, EmployeeResponse{
			ID:           emp.ID,
			Name:         emp.Name,
			Login:        emp.Login,
			DepartmentCD: emp.DepartmentCD,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}
