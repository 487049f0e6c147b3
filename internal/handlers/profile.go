package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookmyroom/internal/auth"
	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/storage"
)

type ProfileHandler struct {
	users     *storage.UserRepository
	buildings *storage.BuildingRepository
	logger    *slog.Logger
}

func NewProfileHandler(users *storage.UserRepository, buildings *storage.BuildingRepository, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, buildings: buildings, logger: logger}
}

type profileResponse struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	GitHubLogin     string `json:"github_login,omitempty"`
	BuildingID      string `json:"building_id,omitempty"`
	BuildingAddress string `json:"building_address,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Get(r.Context(), ident.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	resp := profileResponse{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        string(user.Role),
		GitHubLogin: user.GitHubLogin,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.BuildingID != nil {
		resp.BuildingID = *user.BuildingID
		if b, err := h.buildings.Get(r.Context(), *user.BuildingID); err == nil {
			resp.BuildingAddress = b.Address
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	updated, err := h.users.UpdateName(r.Context(), ident.UserID, req.Name)
	if err != nil {
		http.Error(w, "failed to update name", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateBuilding sets the user's home building; an empty building_id
// clears it.
func (h *ProfileHandler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		BuildingID string `json:"building_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BuildingID = strings.TrimSpace(req.BuildingID)

	var buildingID *string
	if req.BuildingID != "" {
		if _, err := h.buildings.Get(r.Context(), req.BuildingID); err != nil {
			if db.IsNotFound(err) {
				http.Error(w, "building not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load building", http.StatusInternalServerError)
			return
		}
		buildingID = &req.BuildingID
	}

	updated, err := h.users.UpdateBuilding(r.Context(), ident.UserID, buildingID)
	if err != nil {
		http.Error(w, "failed to update building", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
