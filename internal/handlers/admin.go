package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
	"github.com/example/bookmyroom/internal/storage"
)

// AdminHandler is the management surface. Routes carrying it are wrapped
// with the admin role requirement at mux setup.
type AdminHandler struct {
	users     *storage.UserRepository
	rooms     *storage.RoomRepository
	buildings *storage.BuildingRepository
	logger    *slog.Logger
}

func NewAdminHandler(users *storage.UserRepository, rooms *storage.RoomRepository, buildings *storage.BuildingRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{users: users, rooms: rooms, buildings: buildings, logger: logger}
}

type adminUserItem struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	BuildingID  string `json:"building_id,omitempty"`
	GitHubLogin string `json:"github_login,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("user list failed", "err", err)
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	items := make([]adminUserItem, 0, len(users))
	for _, u := range users {
		item := adminUserItem{
			UserID:      u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Role:        string(u.Role),
			GitHubLogin: u.GitHubLogin,
			CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if u.BuildingID != nil {
			item.BuildingID = *u.BuildingID
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		BuildingID string `json:"building_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		http.Error(w, "name and email required", http.StatusBadRequest)
		return
	}
	role, ok := model.ParseRole(strings.TrimSpace(req.Role))
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	u := model.User{Name: req.Name, Email: req.Email, Role: role}
	if b := strings.TrimSpace(req.BuildingID); b != "" {
		u.BuildingID = &b
	}
	id, err := h.users.Create(r.Context(), u)
	if err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		if db.IsForeignKeyViolation(err) {
			http.Error(w, "building not found", http.StatusBadRequest)
			return
		}
		h.logger.Error("user create failed", "err", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": id})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := pathID(r, "/api/admin/delete-user/")
	if id == "" {
		http.Error(w, "user id required", http.StatusBadRequest)
		return
	}
	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	role, ok := model.ParseRole(strings.TrimSpace(req.Role))
	if !ok {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	updated, err := h.users.UpdateRole(r.Context(), req.UserID, role)
	if err != nil {
		http.Error(w, "failed to change role", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	h.logger.Info("role changed", "user_id", req.UserID, "role", role)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUser edits name and home building on behalf of the user. Role
// changes go through ChangeRole so they are logged separately.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		UserID     string  `json:"user_id"`
		Name       string  `json:"name"`
		BuildingID *string `json:"building_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		updated, err := h.users.UpdateName(r.Context(), req.UserID, name)
		if err != nil {
			http.Error(w, "failed to update user", http.StatusInternalServerError)
			return
		}
		if !updated {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
	}
	if req.BuildingID != nil {
		buildingID := req.BuildingID
		if strings.TrimSpace(*buildingID) == "" {
			buildingID = nil
		}
		updated, err := h.users.UpdateBuilding(r.Context(), req.UserID, buildingID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				http.Error(w, "building not found", http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to update user", http.StatusInternalServerError)
			return
		}
		if !updated {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		RoomNumber string `json:"room_number"`
		Capacity   int    `json:"capacity"`
		Floor      int    `json:"floor"`
		BuildingID string `json:"building_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.BuildingID = strings.TrimSpace(req.BuildingID)
	if req.RoomNumber == "" || req.BuildingID == "" {
		http.Error(w, "room_number and building_id required", http.StatusBadRequest)
		return
	}
	if req.Capacity <= 0 {
		http.Error(w, "capacity must be positive", http.StatusBadRequest)
		return
	}

	id, err := h.rooms.Create(r.Context(), model.Room{
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		BuildingID: req.BuildingID,
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			http.Error(w, "building not found", http.StatusBadRequest)
			return
		}
		h.logger.Error("room create failed", "err", err)
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"room_id": id})
}

func (h *AdminHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := pathID(r, "/api/admin/delete-room/")
	if id == "" {
		http.Error(w, "room id required", http.StatusBadRequest)
		return
	}
	deleted, err := h.rooms.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete room", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AddBuilding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Address string `json:"address"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	if req.Address == "" {
		http.Error(w, "address required", http.StatusBadRequest)
		return
	}

	id, err := h.buildings.Create(r.Context(), model.Building{Address: req.Address, City: req.City})
	if err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "building already exists", http.StatusConflict)
			return
		}
		h.logger.Error("building create failed", "err", err)
		http.Error(w, "failed to create building", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"building_id": id})
}

func (h *AdminHandler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := pathID(r, "/api/admin/delete-building/")
	if id == "" {
		http.Error(w, "building id required", http.StatusBadRequest)
		return
	}
	deleted, err := h.buildings.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete building", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "building not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
