package handler

import (
	"net/http"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignIn verifies the identity token. The first sign-in reconciles with the
// cloud before the response is written.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.authService.SignIn(req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, session)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.authService.SignOut())
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.authService.Current())
}
