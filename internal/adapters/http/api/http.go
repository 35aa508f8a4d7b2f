// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/tipjar/internal/app"
	"github.com/okian/tipjar/internal/domain/model"
	"github.com/okian/tipjar/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	// SubmitTip records one tip; storage write faults come back as
	// errors, duplicate tip ids as an acknowledged receipt.
	SubmitTip(ctx context.Context, req types.TipSubmission) (types.SubmitReceipt, error)

	// Read operations expose the staff table and derived views.
	Staff(ctx context.Context) ([]model.Staff, error)
	Summary(ctx context.Context, staffID string, recentN int) (types.Summary, error)
	Leaderboard(ctx context.Context) ([]types.StaffTotal, error)
	Feed(ctx context.Context, limit int) ([]types.FeedEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	tipsHandler        *TipsHandler
	staffHandler       *StaffHandler
	leaderboardHandler *LeaderboardHandler
	feedHandler        *FeedHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler

	sessions *SessionMiddleware
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, sessions *SessionMiddleware) *Server {
	return &Server{
		tipsHandler:        NewTipsHandler(deps),
		staffHandler:       NewStaffHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, defaultMaxLimit),
		feedHandler:        NewFeedHandler(deps, defaultMaxLimit),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessions:           sessions,
	}
}

// Register attaches all HTTP routes to mux. The leaderboard and feed
// views sit behind the owner/admin role gate; everything else is open
// to any caller.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	gate := s.sessions.RequireRole(RoleOwner, RoleAdmin)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/tips", MetricsMiddleware(s.tipsHandler.HandlePostTip, "tips"))
	mux.HandleFunc("/staff", MetricsMiddleware(s.staffHandler.HandleListStaff, "staff"))
	mux.HandleFunc("/staff/", MetricsMiddleware(s.staffHandler.HandleGetSummary, "staff_summary"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.sessions.Attach(gate(s.leaderboardHandler.HandleGetLeaderboard)), "leaderboard"))
	mux.HandleFunc("/feed", MetricsMiddleware(s.sessions.Attach(gate(s.feedHandler.HandleGetFeed)), "feed"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isValidation matches the service's validation sentinels so a
// reworded message cannot change the response class.
func isValidation(err error) bool {
	return errors.Is(err, service.ErrMissingStaffID) ||
		errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrInvalidRating)
}

// isBackpressure detects a full append queue.
func isBackpressure(err error) bool {
	return errors.Is(err, service.ErrBackpressure)
}
