// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/tipjar/internal/domain/types"
)

// TipsHandler handles tip submissions.
type TipsHandler struct {
	deps Dependencies
}

// NewTipsHandler creates a new tips handler.
func NewTipsHandler(deps Dependencies) *TipsHandler {
	return &TipsHandler{deps: deps}
}

// tipRequest mirrors the POST /tips body.
type tipRequest struct {
	TipID    string  `json:"tip_id"`
	StaffID  string  `json:"staff_id"`
	Amount   float64 `json:"amount"`
	Rating   int     `json:"rating"`
	Feedback string  `json:"feedback"`
}

func (t tipRequest) validate() error {
	switch {
	case strings.TrimSpace(t.StaffID) == "":
		return errors.New("missing staff_id")
	case t.Amount < 0:
		return errors.New("amount must be non-negative")
	case t.Rating < 1 || t.Rating > 5:
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// HandlePostTip handles POST /tips requests.
func (h *TipsHandler) HandlePostTip(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_tip"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req tipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.SubmitTip(r.Context(), types.TipSubmission{
		TipID:    req.TipID,
		StaffID:  req.StaffID,
		Amount:   req.Amount,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	switch {
	case err == nil:
	case isValidation(err):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case isBackpressure(err):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	default:
		// Storage write fault: the tip was NOT recorded and the caller
		// must know.
		writeError(w, http.StatusInternalServerError, "write_failed", Wrap(op, err))
		return
	}

	if receipt.Duplicate {
		writeJSON(w, http.StatusOK, receipt)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
