package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/persist"
)

// UserDataHandler serves the persisted state document for a user
type UserDataHandler struct {
	snapshots database.SnapshotStore
	writer    *persist.DebouncedWriter
	logger    *zap.Logger
}

// NewUserDataHandler creates a new user data handler
func NewUserDataHandler(snapshots database.SnapshotStore, writer *persist.DebouncedWriter, logger *zap.Logger) *UserDataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserDataHandler{snapshots: snapshots, writer: writer, logger: logger}
}

// RegisterRoutes registers user data routes on the given router
func (h *UserDataHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetUserData).Methods("GET")
	r.HandleFunc("", h.PutUserData).Methods("POST")
}

// GetUserData returns the stored document, initializing an empty one on
// first read.
func (h *UserDataHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	// A flush-in-progress could otherwise serve a stale read.
	h.writer.Flush(user.ID)

	doc, err := h.snapshots.GetOrInit(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("user_data_read_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// PutUserDataRequest is a full-document replacement
type PutUserDataRequest struct {
	Habits []models.Habit       `json:"habits"`
	Logs   models.CompletionLog `json:"logs"`
	Stats  models.UserStats     `json:"stats"`
}

// PutUserData replaces the stored document. Last writer wins.
func (h *UserDataHandler) PutUserData(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req PutUserDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	snap := models.Snapshot{Habits: req.Habits, Logs: req.Logs, Stats: req.Stats}
	if snap.Habits == nil {
		snap.Habits = []models.Habit{}
	}
	if snap.Logs == nil {
		snap.Logs = models.CompletionLog{}
	}
	if snap.Stats.TotalXP < 0 {
		snap.Stats.TotalXP = 0
	}

	h.writer.Offer(user.ID, snap)

	respondJSON(w, http.StatusOK, snap)
}
