// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/kianvash/warboard/internal/domain/model"
)

// AllianceDependencies defines the interface for alliance reads.
type AllianceDependencies interface {
	Alliances(ctx context.Context) []model.AllianceRecord
}

// AlliancesHandler handles alliance roll-up requests.
type AlliancesHandler struct {
	deps AllianceDependencies
}

// NewAlliancesHandler creates a new alliances handler.
func NewAlliancesHandler(deps AllianceDependencies) *AlliancesHandler {
	return &AlliancesHandler{deps: deps}
}

// HandleGetAlliances handles GET /alliances requests. The list is already
// sorted descending by total score.
func (h *AlliancesHandler) HandleGetAlliances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Alliances(r.Context()))
}
