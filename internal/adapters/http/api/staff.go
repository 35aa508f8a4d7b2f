// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// StaffHandler handles staff table and per-staff summary requests.
type StaffHandler struct {
	deps Dependencies
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(deps Dependencies) *StaffHandler {
	return &StaffHandler{deps: deps}
}

// HandleListStaff handles GET /staff requests.
func (h *StaffHandler) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_staff"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	staff, err := h.deps.Staff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// HandleGetSummary handles GET /staff/{staff_id}/summary?recent=N
// requests. The summary is recomputed from the ledger on every call;
// unknown ids yield the zero summary rather than a 404, since an
// absent ledger is a normal first-run state.
func (h *StaffHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/staff/")
	staffID, rest, found := strings.Cut(path, "/")
	if staffID == "" || !found || rest != "summary" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	recentN := 0
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		recentN = n
	}

	summary, err := h.deps.Summary(r.Context(), staffID, recentN)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
