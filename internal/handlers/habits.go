package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/persist"
	"github.com/habitflow/habitflow/internal/queue"
	"github.com/habitflow/habitflow/internal/validation"
)

// InsightRefreshDelay is the debounce window before a toggle-triggered
// insight job becomes eligible for processing.
const InsightRefreshDelay = 2 * time.Minute

// MaxHabitNameLength is the maximum length for a habit name
const MaxHabitNameLength = 200

// HabitHandler handles habit CRUD and completion toggles
type HabitHandler struct {
	snapshots database.SnapshotStore
	writer    *persist.DebouncedWriter
	jobQueue  queue.JobQueue
	logger    *zap.Logger
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(snapshots database.SnapshotStore, writer *persist.DebouncedWriter, jobQueue queue.JobQueue, logger *zap.Logger) *HabitHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HabitHandler{snapshots: snapshots, writer: writer, jobQueue: jobQueue, logger: logger}
}

// RegisterRoutes registers habit routes on the given router
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateHabit).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateHabit).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleHabit).Methods("POST")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Category     string  `json:"category" validate:"required,habit_category"`
	Difficulty   int     `json:"difficulty" validate:"required,min=1,max=5"`
	Color        string  `json:"color,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// UpdateHabitRequest represents a partial habit update
type UpdateHabitRequest struct {
	Name         *string `json:"name,omitempty"`
	Category     *string `json:"category,omitempty"`
	Difficulty   *int    `json:"difficulty,omitempty"`
	Color        *string `json:"color,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// ToggleHabitRequest represents a completion toggle
type ToggleHabitRequest struct {
	Date string `json:"date" validate:"required,iso_date"`
}

// ToggleHabitResponse carries the new snapshot plus what the toggle did
type ToggleHabitResponse struct {
	Snapshot  models.Snapshot `json:"snapshot"`
	Completed bool            `json:"completed"`
	XPDelta   int             `json:"xp_delta"`
}

// loadSnapshot returns the freshest state for the user: the pending
// debounced write when one exists, the stored document otherwise.
func (h *HabitHandler) loadSnapshot(r *http.Request, userID uuid.UUID) (models.Snapshot, error) {
	if snap, ok := h.writer.Peek(userID); ok {
		return snap, nil
	}
	doc, err := h.snapshots.GetOrInit(r.Context(), userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

// CreateHabit adds a habit to the user's registry
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Name = validation.SanitizeText(req.Name)

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	params := habits.NewHabitParams{
		Name:         req.Name,
		Category:     models.HabitCategory(req.Category),
		Difficulty:   req.Difficulty,
		Color:        models.HabitColor(req.Color),
		ReminderTime: req.ReminderTime,
	}
	newSnap, habit, err := habits.AddHabit(snap, params)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.writer.Offer(user.ID, newSnap)
	h.logger.Info("habit_created",
		zap.String("user_id", user.ID.String()),
		zap.String("habit_id", habit.ID.String()),
	)

	respondJSON(w, http.StatusCreated, newSnap)
}

// UpdateHabit partially updates a habit
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return
	}

	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		req.Name = &sanitized
	}
	if req.Category != nil {
		if err := validation.ValidateCategory(*req.Category); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
	}
	if req.Difficulty != nil && !habits.ValidDifficulty(*req.Difficulty) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Difficulty must be between 1 and 5")
		return
	}

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	edit := habits.HabitEdit{
		Name:         req.Name,
		Difficulty:   req.Difficulty,
		ReminderTime: req.ReminderTime,
	}
	if req.Category != nil {
		cat := models.HabitCategory(*req.Category)
		edit.Category = &cat
	}
	if req.Color != nil {
		color := models.HabitColor(*req.Color)
		edit.Color = &color
	}

	newSnap, err := habits.EditHabit(snap, id, edit)
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.writer.Offer(user.ID, newSnap)
	respondJSON(w, http.StatusOK, newSnap)
}

// DeleteHabit removes a habit from the registry. Completion history for
// the habit is kept.
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return
	}

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	newSnap, err := habits.RemoveHabit(snap, id)
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to remove habit")
		return
	}

	h.writer.Offer(user.ID, newSnap)
	h.logger.Info("habit_deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("habit_id", id.String()),
	)
	respondJSON(w, http.StatusOK, newSnap)
}

// ToggleHabit flips a habit's completion for a date and adjusts XP
func (h *HabitHandler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return
	}

	req := ToggleHabitRequest{Date: habits.Today()}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
			return
		}
	}
	if !habits.ValidDate(req.Date) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Date must be in YYYY-MM-DD format")
		return
	}

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	before := snap.Stats.TotalXP
	newSnap, completed := habits.Toggle(snap, id, req.Date)

	h.writer.Offer(user.ID, newSnap)
	h.enqueueInsightRefresh(r, user.ID, id)

	respondJSON(w, http.StatusOK, ToggleHabitResponse{
		Snapshot:  newSnap,
		Completed: completed,
		XPDelta:   newSnap.Stats.TotalXP - before,
	})
}

// enqueueInsightRefresh schedules a debounced insight regeneration. Queue
// trouble never fails the toggle.
func (h *HabitHandler) enqueueInsightRefresh(r *http.Request, userID, habitID uuid.UUID) {
	if h.jobQueue == nil {
		return
	}

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, &habitID)
	notBefore := time.Now().Add(InsightRefreshDelay)
	job.NotBefore = &notBefore

	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Warn("insight_job_enqueue_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
