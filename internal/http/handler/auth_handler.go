package handler

import (
	"net/http"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler signs visitors in and out with the mock auth provider
type AuthHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewAuthHandler(accountService *service.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// SignIn godoc
// @Summary Sign in
// @Description Signs the visitor in. No password is checked.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "Name and email"
// @Success 200 {object} domain.UserResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.accountService.SignIn(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// SignOut godoc
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserResponse
// @Security BearerAuth
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	resp, err := h.accountService.SignOut(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserResponse
// @Failure 404 {object} domain.APIError "Not signed in"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.accountService.Me(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
