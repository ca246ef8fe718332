package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/folio/internal/auth"
)

// Authenticator checks admin credentials and issues session tokens.
type Authenticator interface {
	TokenVerifier
	Login(username, password string) (string, time.Time, error)
}

// LoginHandler serves the admin login.
type LoginHandler struct {
	auth    Authenticator
	enabled bool
}

// NewLoginHandler creates a LoginHandler. With enabled false every login
// succeeds without a token, matching the pass-through middleware.
func NewLoginHandler(a Authenticator, enabled bool) *LoginHandler {
	return &LoginHandler{auth: a, enabled: enabled}
}

// Login handles POST /api/auth.
//
//	@Summary		Admin login
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	errResponse
//	@Failure		401		{object}	errResponse
//	@Failure		429		{object}	errResponse
//	@Router			/auth [post]
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if !h.enabled {
		writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful"})
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("admin login rejected", slog.String("remote", clientIP(r)))
			writeJSON(w, http.StatusUnauthorized, errorBody("Invalid credentials"))
			return
		}
		slog.Error("issue token failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", Token: token, ExpiresAt: expires})
}
