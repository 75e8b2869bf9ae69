// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kianvash/warboard/internal/domain/dedupe"
	"github.com/kianvash/warboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Ingest submits a payload job for async aggregation. Returns false on
	// backpressure.
	Ingest(ctx context.Context, job model.Job) bool

	// Read operations expose the current snapshot.
	Snapshot(ctx context.Context) model.Snapshot
	TopN(ctx context.Context, n int) ([]model.PlayerRecord, error)
	Rank(ctx context.Context, name string) (model.PlayerRecord, error)
	Alliances(ctx context.Context) []model.AllianceRecord
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	payloadsHandler    *PayloadsHandler
	snapshotHandler    *SnapshotHandler
	leaderboardHandler *LeaderboardHandler
	alliancesHandler   *AlliancesHandler
	rankHandler        *RankHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		payloadsHandler:    NewPayloadsHandler(deps),
		snapshotHandler:    NewSnapshotHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		alliancesHandler:   NewAlliancesHandler(deps),
		rankHandler:        NewRankHandler(deps),
		dashboardHandler:   newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/payloads", MetricsMiddleware(s.payloadsHandler.HandlePostPayload, "payloads"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/alliances", MetricsMiddleware(s.alliancesHandler.HandleGetAlliances, "alliances"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
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
