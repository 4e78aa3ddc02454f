package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
)

const (
	reasonAlreadyRegistered = "already_registered"
	reasonAlreadyVoted      = "already_voted"
	reasonInvalidCredential = "invalid_credential"
	reasonInvalidInput      = "invalid_input"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, reason string) {
	writeJSON(w, status, errorResponse{Error: message, Reason: reason})
}

// respondError maps domain errors to HTTP responses. Anything it does not
// recognise is treated as a storage failure: logged, reported generically.
func respondError(w http.ResponseWriter, logger *zap.Logger, metrics *Metrics, err error) {
	switch {
	case domain.IsValidationError(err):
		metrics.Rejected(reasonInvalidInput)
		writeError(w, http.StatusBadRequest, err.Error(), reasonInvalidInput)
	case errors.Is(err, domain.ErrInvalidCredential):
		metrics.Rejected(reasonInvalidCredential)
		writeError(w, http.StatusUnauthorized, "Authentication failed", reasonInvalidCredential)
	case errors.Is(err, domain.ErrDuplicateIdentity):
		metrics.Rejected(reasonAlreadyRegistered)
		writeError(w, http.StatusConflict, "You have already registered and cannot register again.", reasonAlreadyRegistered)
	case errors.Is(err, domain.ErrAlreadyVoted):
		metrics.Rejected(reasonAlreadyVoted)
		writeError(w, http.StatusConflict, "You have already cast your vote and cannot vote again.", reasonAlreadyVoted)
	case errors.Is(err, domain.ErrVoterNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error(), "")
	}
}
