package handler

import (
	"net/http"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/mapper"
	"go.uber.org/zap"
)

// SessionHandler issues the bearer tokens that identify a visitor's client state
type SessionHandler struct {
	tokens *auth.SessionTokens
	logger *zap.Logger
}

func NewSessionHandler(tokens *auth.SessionTokens, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Create godoc
// @Summary Start a visitor session
// @Description Issues a token for a new, empty client state. Send it as a bearer token on every other call.
// @Tags Session
// @Produce json
// @Success 201 {object} domain.SessionDTO
// @Failure 500 {object} domain.APIError
// @Router /session [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.tokens.NewSession()
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	h.logger.Info("Visitor session started", zap.String("session_id", session.SessionID))
	respondJSON(w, http.StatusCreated, mapper.ToSessionDTO(session.SessionID, session.Token, session.ExpiresAt))
}

// Refresh godoc
// @Summary Refresh the session token
// @Description Issues a fresh token for the current session. The client state is kept.
// @Tags Session
// @Produce json
// @Success 200 {object} domain.SessionDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /session/refresh [post]
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "A visitor session is required.")
		return
	}

	session, err := h.tokens.Issue(current.SessionID)
	if err != nil {
		h.logger.Error("failed to refresh session token",
			zap.String("session_id", current.SessionID),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh session")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToSessionDTO(session.SessionID, session.Token, session.ExpiresAt))
}
