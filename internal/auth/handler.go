package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler exposes sign-in, sign-out and the session state over HTTP.
type Handler struct {
	gate   *Gate
	secret string
	logger *logging.Logger
}

// NewHandler creates the auth handler; secret verifies the caller's bearer
// token when reporting session state.
func NewHandler(gate *Gate, secret string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{gate: gate, secret: secret, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	Email       string `json:"email"`
}

// Login handles POST /auth/login. Failed attempts get a generic message, not
// the backend's wording.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.gate.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("sign in failed", "error", err, "email", req.Email)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresAt:   sess.ExpiresAt.Format(time.RFC3339),
		Email:       sess.User.Email,
	})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SessionState handles GET /auth/session, reporting which branch the admin
// route should render for THIS caller. The state is derived from the request's
// bearer token, not from process-wide state; other staff signing in or out
// must not change what an anonymous caller sees.
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	state := StateLoading
	if h.gate.State() != StateLoading {
		state = StateAnonymous
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") && h.secret != "" {
			token := strings.TrimPrefix(header, "Bearer ")
			if sess, err := VerifyToken(h.secret, token); err == nil && sess.Valid() {
				state = StateAuthenticated
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"state": state.String()})
}
