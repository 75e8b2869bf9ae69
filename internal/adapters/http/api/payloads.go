// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kianvash/warboard/internal/domain/dedupe"
	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/metrics"
)

// PayloadDependencies defines the interface for payload ingestion.
type PayloadDependencies interface {
	dedupe.Deduper
	Ingest(ctx context.Context, job model.Job) bool
}

// PayloadsHandler handles raw payload uploads.
type PayloadsHandler struct {
	deps PayloadDependencies
}

// NewPayloadsHandler creates a new payloads handler.
func NewPayloadsHandler(deps PayloadDependencies) *PayloadsHandler {
	return &PayloadsHandler{deps: deps}
}

// payloadRequest mirrors the upload contract: four optional datasets plus
// provenance fields. Record keys stay untyped; normalization happens in the
// aggregation engine, never here.
type payloadRequest struct {
	UploadID string            `json:"upload_id"`
	DataFile string            `json:"data_file"`
	Positive []model.RawRecord `json:"positive"`
	Negative []model.RawRecord `json:"negative"`
	Combined []model.RawRecord `json:"combined"`
	Alliance []model.RawRecord `json:"alliance"`
}

// HandlePostPayload handles POST /payloads requests.
func (h *PayloadsHandler) HandlePostPayload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_payload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req payloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordPayloadRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Uploads without an explicit ID get a generated one; they can never be
	// deduplicated, which matches ad hoc dashboard refreshes.
	uploadID := req.UploadID
	if uploadID == "" {
		uploadID = uuid.NewString()
	} else if h.deps.SeenAndRecord(r.Context(), uploadID) {
		metrics.RecordPayloadDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", JobID: uploadID, Duplicate: true})
		return
	}

	job := model.Job{
		JobID:    uploadID,
		DataFile: req.DataFile,
		Payload: model.RawPayload{
			Positive: req.Positive,
			Negative: req.Negative,
			Combined: req.Combined,
			Alliance: req.Alliance,
		},
		ReceivedAt: time.Now(),
	}

	if ok := h.deps.Ingest(r.Context(), job); !ok {
		// Roll back the "seen" status so the upload can be retried.
		h.deps.Unrecord(r.Context(), uploadID)
		metrics.RecordPayloadRejected()
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	metrics.RecordPayloadReceived()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: uploadID, Duplicate: false})
}
