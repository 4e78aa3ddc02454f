package http

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type VoterHandler struct {
	service  ports.VoterService
	sessions *SessionManager
	metrics  *Metrics
	logger   *zap.Logger
}

func NewVoterHandler(service ports.VoterService, sessions *SessionManager, metrics *Metrics, logger *zap.Logger) *VoterHandler {
	return &VoterHandler{
		service:  service,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

type registerResponse struct {
	VoterID    uuid.UUID `json:"voter_id"`
	Name       string    `json:"name"`
	Credential []byte    `json:"credential"` // base64 PNG
}

// Register handles POST /api/voters with form fields identity, name, dob and secret.
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form", reasonInvalidInput)
		return
	}

	input := ports.RegisterInput{
		Identity:    r.FormValue("identity"),
		Name:        r.FormValue("name"),
		DateOfBirth: r.FormValue("dob"),
		Secret:      r.FormValue("secret"),
	}

	reg, err := h.service.Register(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}
	h.metrics.VoterRegistered()

	err = h.sessions.Issue(w, Session{
		VoterID: reg.Voter.ID,
		Stage:   StageRegistered,
		Name:    reg.Voter.Name,
	})
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		VoterID:    reg.Voter.ID,
		Name:       reg.Voter.Name,
		Credential: reg.Credential,
	})
}

// Credential handles GET /api/voters/credential and serves the PNG for the
// voter registered in this session.
func (h *VoterHandler) Credential(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFrom(r.Context())

	img, err := h.service.CredentialImage(r.Context(), s.VoterID)
	if err != nil {
		respondError(w, h.logger, h.metrics, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="voter-credential.png"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
