package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/auth"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, name, phone string) (auth.Identity, uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (auth.Identity, uuid.UUID, error)
	SignOut(ctx context.Context, token uuid.UUID) error
	Identify(ctx context.Context, token uuid.UUID) (auth.Identity, error)
}

type AuthHandler struct {
	auth     AuthService
	profiles ProfileSource
	logger   *slog.Logger
}

func NewAuthHandler(svc AuthService, profiles ProfileSource, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, profiles: profiles, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
	Phone    string `json:"telefono"`
}

type sessionResponse struct {
	Token  uuid.UUID `json:"token"`
	AuthID uuid.UUID `json:"auth_id"`
	Email  string    `json:"email"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !validEmail(req.Email) || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	identity, token, err := h.auth.SignUp(ctx, req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("sign up failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, AuthID: identity.AuthID, Email: identity.Email})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	identity, token, err := h.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("sign in failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, AuthID: identity.AuthID, Email: identity.Email})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, err := requestToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.auth.SignOut(ctx, token); err != nil {
		h.logger.Error("sign out failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not sign out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session resolves the presented token to the identity and, when the profile
// exists, the role. A missing profile does not invalidate the session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token, err := requestToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	identity, err := h.auth.Identify(ctx, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "session expired or unknown")
		return
	}

	resp := map[string]any{
		"auth_id": identity.AuthID,
		"email":   identity.Email,
	}
	if profile, err := h.profiles.GetByAuthID(ctx, identity.AuthID); err == nil {
		resp["rol"] = profile.Role
		resp["nombre"] = profile.Name
	}

	writeJSON(w, http.StatusOK, resp)
}
