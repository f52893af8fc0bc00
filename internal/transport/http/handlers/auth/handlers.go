package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/auth"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Auth *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Auth: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.With(middleware.RequireUser).Post("/logout", h.handleLogout)
		r.With(middleware.RequireUser).Post("/password", h.handleChangePassword)
		r.With(middleware.RequireUser).Post("/mfa/setup", h.handleSetupMFA)
		r.With(middleware.RequireUser).Post("/mfa/confirm", h.handleConfirmMFA)
		r.With(middleware.RequireUser).Delete("/mfa", h.handleDisableMFA)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		MFACode  string `json:"mfaCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Auth.Login(r.Context(), payload.Username, payload.Password, payload.MFACode)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", reqID)
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "an MFA code is required", reqID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid MFA code", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", reqID)
	default:
		api.Success(w, result, reqID)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		EmployeeID   string `json:"employeeId"`
		Role         string `json:"role"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	result, err := h.Auth.Refresh(r.Context(), payload.EmployeeID, payload.Role, payload.RefreshToken)
	if errors.Is(err, auth.ErrSessionExpired) {
		api.Fail(w, http.StatusUnauthorized, "session_expired", "session expired, log in again", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "refresh failed", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	if err := h.Auth.Logout(r.Context(), user.EmployeeID, payload.RefreshToken); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "logout failed", reqID)
		return
	}
	api.Success(w, map[string]bool{"loggedOut": true}, reqID)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	err := h.Auth.ChangePassword(r.Context(), user.EmployeeID, payload.NewPassword)
	if errors.Is(err, auth.ErrWeakPassword) {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "password change failed", reqID)
		return
	}
	api.Success(w, map[string]bool{"changed": true}, reqID)
}

func (h *Handler) handleSetupMFA(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	url, err := h.Auth.SetupMFA(r.Context(), user.EmployeeID, payload.Username)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "mfa setup failed", reqID)
		return
	}
	api.Success(w, map[string]string{"otpauthUrl": url}, reqID)
}

func (h *Handler) handleConfirmMFA(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	err := h.Auth.ConfirmMFA(r.Context(), user.EmployeeID, payload.Code)
	if errors.Is(err, auth.ErrMFAInvalid) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid MFA code", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "mfa confirmation failed", reqID)
		return
	}
	api.Success(w, map[string]bool{"enabled": true}, reqID)
}

func (h *Handler) handleDisableMFA(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Auth.DisableMFA(r.Context(), user.EmployeeID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "mfa disable failed", reqID)
		return
	}
	api.Success(w, map[string]bool{"enabled": false}, reqID)
}
