package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/auth"
)

type AuthHandler struct {
	provider auth.Provider
	timeout  time.Duration
}

func NewAuthHandler(provider auth.Provider, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		timeout:  timeout,
	}
}

type SignUpRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type SignInRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequestDTO struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type SessionResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}

	session, err := h.provider.SignUp(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toSessionDTO(session))
}

// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session, err := h.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.provider.SignOut(ctx, bearerToken(r)); err != nil {
		h.handleAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, err := h.provider.Session(ctx, bearerToken(r))
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// PATCH /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.provider.UpdateProfile(ctx, bearerToken(r), auth.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserDTO(*user))
}

// handleAuthError passes the provider's message through verbatim; the
// rendering layer shows it as a single banner.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrNoActiveSession):
		respondError(w, http.StatusUnauthorized, "auth_error", err.Error())
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusUnprocessableEntity, "auth_error", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "auth_error", "authentication failed")
	}
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func toSessionDTO(s *auth.Session) SessionResponseDTO {
	return SessionResponseDTO{
		Token: s.Token,
		User:  toUserDTO(s.User),
	}
}

func toUserDTO(u auth.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}
