package http

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

const maxCredentialUpload = 5 << 20

type SessionHandler struct {
	voters   ports.VoterService
	votes    ports.VoteService
	sessions *SessionManager
	metrics  *Metrics
	logger   *zap.Logger
}

func NewSessionHandler(voters ports.VoterService, votes ports.VoteService, sessions *SessionManager, metrics *Metrics, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		voters:   voters,
		votes:    votes,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login handles POST /api/sessions. The body is a multipart form carrying the
// credential image in the "credential" field.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCredentialUpload+1<<20)
	if err := r.ParseMultipartForm(maxCredentialUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Credential image too large", reasonInvalidInput)
			return
		}
		writeError(w, http.StatusBadRequest, "No credential uploaded", reasonInvalidInput)
		return
	}

	file, _, err := r.FormFile("credential")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No credential uploaded", reasonInvalidInput)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxCredentialUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read credential", reasonInvalidInput)
		return
	}

	summary, err := h.voters.AuthenticateImage(r.Context(), image)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	hasVoted, err := h.votes.HasVoted(r.Context(), summary.ID)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}
	if hasVoted {
		h.metrics.Rejected(reasonAlreadyVoted)
		writeError(w, http.StatusConflict, "You have already cast your vote and cannot vote again.", reasonAlreadyVoted)
		return
	}

	err = h.sessions.Issue(w, Session{
		VoterID:     summary.ID,
		Stage:       StageAuthenticated,
		Name:        summary.Name,
		DateOfBirth: summary.DateOfBirth,
	})
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Me handles GET /api/sessions/me, the identity verification step before
// voting.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFrom(r.Context())

	hasVoted, err := h.votes.HasVoted(r.Context(), s.VoterID)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}
	if hasVoted {
		writeError(w, http.StatusConflict, "You have already cast your vote and cannot vote again.", reasonAlreadyVoted)
		return
	}

	summary, err := h.voters.GetVoter(r.Context(), s.VoterID)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Logout handles DELETE /api/sessions.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
