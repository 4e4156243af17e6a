package handler

import (
	"net/http"

	"github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

type signupRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
	AgeConfirmed bool   `json:"age_confirmed"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Ok             bool         `json:"ok"`
	User           userResponse `json:"user"`
	ShowOnboarding bool         `json:"show_onboarding"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.AgeConfirmed)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token, h.cfg.JwtTTL())
	writeJSONStatus(w, http.StatusCreated, authResponse{
		Ok:             true,
		User:           toOwnerResponse(user),
		ShowOnboarding: user.OnboardingPending,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token, h.cfg.JwtTTL())
	writeJSON(w, authResponse{
		Ok:             true,
		User:           toOwnerResponse(user),
		ShowOnboarding: user.OnboardingPending,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAccessCookie(w)
	writeJSON(w, map[string]bool{"ok": true})
}

func (h *Handler) AckOnboarding(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)

	if err := h.auth.AckOnboarding(r.Context(), user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]bool{"ok": true})
}
