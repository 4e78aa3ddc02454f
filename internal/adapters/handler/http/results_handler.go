package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type ResultsHandler struct {
	results   ports.ResultService
	feed      ports.ResultsFeed
	reconcile ports.ReconcileService
	logger    *zap.Logger
}

func NewResultsHandler(results ports.ResultService, feed ports.ResultsFeed, reconcile ports.ReconcileService, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{
		results:   results,
		feed:      feed,
		reconcile: reconcile,
		logger:    logger,
	}
}

type resultsResponse struct {
	Success bool `json:"success"`
	domain.Results
}

// GetResults handles GET /api/results.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.GetResults(r.Context())
	if err != nil {
		h.logger.Error("failed to get results", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "failed to get results",
		})
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{Success: true, Results: results})
}

// Stream handles GET /api/results/stream as server-sent events, one event per
// snapshot published by the results feed.
func (h *ResultsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("streaming unsupported", zap.Error(err))
		return
	}

	snapshots, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case results, ok := <-snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(results)
			if err != nil {
				h.logger.Error("failed to encode results", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// Audit handles GET /api/results/audit: decrypted vote log counts checked
// against the tally.
func (h *ResultsHandler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcile.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("failed to reconcile results", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to reconcile results", "")
		return
	}
	if !report.Consistent() {
		h.logger.Warn("vote log does not match tally",
			zap.Int64("total_votes", report.TotalVotes),
			zap.Int64("total_tally", report.TotalTally),
			zap.Int64("undecryptable", report.Undecryptable),
		)
	}

	writeJSON(w, http.StatusOK, report)
}
