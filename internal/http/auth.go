package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"salesauth/internal/service"
	"salesauth/pkg/httpx"
	"salesauth/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	RoleName string `json:"roleName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// tokenResponse is the envelope the auth endpoints answer with. validTo is
// omitted on the refresh path, matching the original API surface.
type tokenResponse struct {
	IsSuccess    bool       `json:"isSuccess"`
	Message      string     `json:"message,omitempty"`
	AccessToken  string     `json:"accessToken,omitempty"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	ValidTo      *time.Time `json:"validTo,omitempty"`
}

// HandleRegister creates a new account. The endpoint answers in plain text:
// a duplicate email or a failed insert is a 400, while a role that could not
// be assigned still reports success with a distinct warning.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "User could not be registered.")
		return
	}

	err := h.AuthService.Register(ctx, req.Email, req.Password, req.Name, req.Surname, req.RoleName)
	switch {
	case err == nil:
		httpx.WriteText(w, http.StatusOK, "User Created Successfully")
	case errors.Is(err, service.ErrRoleNotSaved):
		// The account exists; only the role link failed.
		httpx.WriteText(w, http.StatusOK, "Role could not be saved.")
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUserCreation):
		httpx.WriteText(w, http.StatusBadRequest, "User could not be registered.")
	default:
		log.Error("register failed", "error", err)
		httpx.WriteText(w, http.StatusInternalServerError, "User could not be registered.")
	}
}

// HandleLogin verifies credentials and returns a fresh token pair.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, tokenResponse{
			IsSuccess: false,
			Message:   "Invalid request",
		})
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, tokenResponse{
				IsSuccess: false,
				Message:   "Email or password is incorrect.",
			})
			return
		}
		log.Error("login failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, tokenResponse{
			IsSuccess: false,
			Message:   "Login failed",
		})
		return
	}

	validTo := pair.ValidTo
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		IsSuccess:    true,
		Message:      "Logged in successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ValidTo:      &validTo,
	})
}

// HandleRefreshToken rotates the refresh token. A structurally bad request
// is a bare 400; any validation failure collapses into one 401 message so
// the endpoint cannot be probed for which half of the pair was rejected.
func (h *AuthHandler) HandleRefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, nil)
		return
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, nil)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			httpx.WriteJSON(w, http.StatusUnauthorized, tokenResponse{
				IsSuccess: false,
				Message:   "Invalid access token or refresh token",
			})
			return
		}
		log.Error("token refresh failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, tokenResponse{
			IsSuccess: false,
			Message:   "Token refresh failed",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		IsSuccess:    true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
