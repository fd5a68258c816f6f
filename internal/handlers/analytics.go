package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/persist"
)

// AnalyticsHandler serves derived read models over the stored state
type AnalyticsHandler struct {
	snapshots database.SnapshotStore
	writer    *persist.DebouncedWriter
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(snapshots database.SnapshotStore, writer *persist.DebouncedWriter, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{snapshots: snapshots, writer: writer, logger: logger}
}

// RegisterRoutes registers analytics routes on the given router
func (h *AnalyticsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	r.HandleFunc("/habits/{id}", h.HabitDetail).Methods("GET")
	r.HandleFunc("/overview", h.Overview).Methods("GET")
}

// DashboardResponse is the home-screen read model
type DashboardResponse struct {
	CurrentStreak   int              `json:"current_streak"`
	StreakFreezes   int              `json:"streak_freezes"`
	TodayCompleted  int              `json:"today_completed"`
	TodayTotal      int              `json:"today_total"`
	Level           int              `json:"level"`
	ProgressPercent float64          `json:"progress_percent"`
	TotalXP         int              `json:"total_xp"`
	WeekDates       []string         `json:"week_dates"`
	Heatmap         []models.DayData `json:"heatmap"`
}

// HabitDetailResponse is the per-habit read model
type HabitDetailResponse struct {
	Habit            models.Habit `json:"habit"`
	CurrentStreak    int          `json:"current_streak"`
	LongestStreak    int          `json:"longest_streak"`
	TotalCompletions int          `json:"total_completions"`
	XPPerCompletion  int          `json:"xp_per_completion"`
	Momentum         []float64    `json:"momentum"`
}

// OverviewResponse is the long-range statistics read model
type OverviewResponse struct {
	AverageRatePercent int                       `json:"average_rate_percent"`
	TotalCompletions   int                       `json:"total_completions"`
	BestDayRate        float64                   `json:"best_day_rate"`
	AverageDifficulty  float64                   `json:"average_difficulty"`
	Performance        []habits.DailyPerformance `json:"performance"`
}

func (h *AnalyticsHandler) loadSnapshot(r *http.Request, userID uuid.UUID) (models.Snapshot, error) {
	if snap, ok := h.writer.Peek(userID); ok {
		return snap, nil
	}
	doc, err := h.snapshots.GetOrInit(r.Context(), userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

// Dashboard returns the aggregate view for the home screen
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		h.logger.Error("analytics_read_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	today := habits.Today()
	level := habits.DeriveLevel(snap.Stats.TotalXP)

	respondJSON(w, http.StatusOK, DashboardResponse{
		CurrentStreak:   habits.CurrentStreak(snap.Logs),
		StreakFreezes:   snap.Stats.StreakFreezes,
		TodayCompleted:  snap.Logs.CompletedCount(today),
		TodayTotal:      len(snap.Habits),
		Level:           level.Level,
		ProgressPercent: level.ProgressPercent,
		TotalXP:         snap.Stats.TotalXP,
		WeekDates:       habits.PastDates(7),
		Heatmap:         habits.Heatmap(snap.Logs, len(snap.Habits)),
	})
}

// HabitDetail returns streaks and momentum for one habit
func (h *AnalyticsHandler) HabitDetail(w http.ResponseWriter, r *http.Request) {
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

	habit := snap.FindHabit(id)
	if habit == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
		return
	}

	respondJSON(w, http.StatusOK, HabitDetailResponse{
		Habit:            *habit,
		CurrentStreak:    habits.HabitCurrentStreak(snap.Logs, id),
		LongestStreak:    habits.LongestStreak(snap.Logs, id),
		TotalCompletions: habits.HabitCompletions(snap.Logs, id),
		XPPerCompletion:  habits.XPReward(habit.Difficulty),
		Momentum:         habits.HabitMomentum(snap.Logs, id),
	})
}

// Overview returns long-range aggregates over all habits
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	snap, err := h.loadSnapshot(r, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load user data")
		return
	}

	respondJSON(w, http.StatusOK, OverviewResponse{
		AverageRatePercent: habits.GlobalAverageRate(snap.Logs, len(snap.Habits)),
		TotalCompletions:   habits.TotalCompletions(snap.Logs),
		BestDayRate:        habits.BestDayRate(snap.Logs, len(snap.Habits)),
		AverageDifficulty:  habits.AverageDifficulty(snap.Habits),
		Performance:        habits.Performance(snap.Logs, len(snap.Habits)),
	})
}
