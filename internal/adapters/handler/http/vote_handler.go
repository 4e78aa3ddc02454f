package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

const maxVoteBody = 4 << 10

type VoteHandler struct {
	service  ports.VoteService
	sessions *SessionManager
	metrics  *Metrics
	logger   *zap.Logger
}

func NewVoteHandler(service ports.VoteService, sessions *SessionManager, metrics *Metrics, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		service:  service,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

type voteRequest struct {
	Option string `json:"option"`
}

func (h *VoteHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"options": h.service.Options()})
}

// Vote handles POST /api/votes for an authenticated session.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxVoteBody)

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", reasonInvalidInput)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body", reasonInvalidInput)
		return
	}

	err := h.service.Vote(r.Context(), ports.VoteInput{VoterID: s.VoterID, Option: req.Option})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			h.markVoted(w, s)
		}
		respondError(w, h.logger, h.metrics, err)
		return
	}

	h.metrics.VoteCast(req.Option)
	h.markVoted(w, s)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "voted"})
}

// Me handles GET /api/votes/me, the thank-you step.
func (h *VoteHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFrom(r.Context())

	hasVoted, err := h.service.HasVoted(r.Context(), s.VoterID)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	name := s.Name
	if name == "" {
		name = "Voter"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": name, "voted": hasVoted})
}

func (h *VoteHandler) markVoted(w http.ResponseWriter, s *Session) {
	voted := *s
	voted.Stage = StageVoted
	if err := h.sessions.Issue(w, voted); err != nil {
		h.logger.Warn("failed to update session", zap.Stringer("voter_id", s.VoterID), zap.Error(err))
	}
}
