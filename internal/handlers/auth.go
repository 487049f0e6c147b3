package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/example/bookmyroom/internal/auth"
	"github.com/example/bookmyroom/internal/storage"
)

// AuthHandler runs the GitHub OAuth login flow. A successful callback
// upserts the user, sets the signed session cookie for browser clients and
// hands the SPA a bearer token via the redirect query.
type AuthHandler struct {
	github      *auth.GitHubClient
	state       auth.StateStore
	sessions    *auth.SessionManager
	tokens      *auth.TokenIssuer
	users       *storage.UserRepository
	logger      *slog.Logger
	frontendURL string
}

func NewAuthHandler(github *auth.GitHubClient, state auth.StateStore, sessions *auth.SessionManager, tokens *auth.TokenIssuer, users *storage.UserRepository, logger *slog.Logger, frontendURL string) *AuthHandler {
	return &AuthHandler{
		github:      github,
		state:       state,
		sessions:    sessions,
		tokens:      tokens,
		users:       users,
		logger:      logger,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state := auth.NewState()
	if err := h.state.Put(r.Context(), state); err != nil {
		h.logger.Error("oauth state store failed", "err", err)
		http.Error(w, "login unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	state := strings.TrimSpace(q.Get("state"))
	code := strings.TrimSpace(q.Get("code"))
	if state == "" || code == "" {
		http.Error(w, "missing code or state", http.StatusBadRequest)
		return
	}
	if !h.state.Take(r.Context(), state) {
		http.Error(w, "invalid or expired state", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrNoVerifiedEmail) {
			http.Error(w, "github account has no verified email", http.StatusForbidden)
			return
		}
		h.logger.Error("github exchange failed", "err", err)
		http.Error(w, "github login failed", http.StatusBadGateway)
		return
	}

	user, err := h.users.UpsertOAuth(r.Context(), ghUser.Name, ghUser.Email, ghUser.Login)
	if err != nil {
		h.logger.Error("user upsert failed", "err", err, "email", ghUser.Email)
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issue failed", "err", err)
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}
	if err := h.sessions.SetUserID(w, user.ID); err != nil {
		h.logger.Error("session cookie failed", "err", err)
	}

	h.logger.Info("user signed in", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, h.frontendURL+"/?token="+url.QueryEscape(token), http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
