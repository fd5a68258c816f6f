package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/persist"
	"github.com/habitflow/habitflow/internal/services/ai"
)

// InsightFreshness is how long a cached insight is served without a new
// provider call.
const InsightFreshness = 6 * time.Hour

// InsightCallTimeout bounds the live provider call
const InsightCallTimeout = 30 * time.Second

// InsightHandler serves AI coaching insights
type InsightHandler struct {
	snapshots database.SnapshotStore
	insights  database.InsightStore
	writer    *persist.DebouncedWriter
	provider  ai.InsightProvider
	logger    *zap.Logger
}

// NewInsightHandler creates a new insight handler. The provider may be nil,
// in which case the static fallback is always served.
func NewInsightHandler(snapshots database.SnapshotStore, insights database.InsightStore, writer *persist.DebouncedWriter, provider ai.InsightProvider, logger *zap.Logger) *InsightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightHandler{
		snapshots: snapshots,
		insights:  insights,
		writer:    writer,
		provider:  provider,
		logger:    logger,
	}
}

// RegisterRoutes registers insight routes on the given router
func (h *InsightHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/insight", h.GetInsight).Methods("GET")
}

// GetInsight returns the cached insight when fresh, calls the provider
// otherwise, and falls back to static coaching text on any failure.
func (h *InsightHandler) GetInsight(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()

	if cached, err := h.insights.Get(ctx, user.ID); err == nil && cached != nil {
		if time.Since(cached.GeneratedAt) < InsightFreshness {
			respondJSON(w, http.StatusOK, cached.Insight)
			return
		}
	}

	if h.provider == nil {
		respondJSON(w, http.StatusOK, ai.FallbackInsight())
		return
	}

	snap, err := h.loadSnapshot(r)
	if err != nil {
		h.logger.Error("insight_state_read_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		respondJSON(w, http.StatusOK, ai.FallbackInsight())
		return
	}
	if len(snap.Habits) == 0 {
		respondJSON(w, http.StatusOK, ai.FallbackInsight())
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, InsightCallTimeout)
	defer cancel()
	insight, err := h.provider.HabitInsights(callCtx, snap.Habits, snap.Logs)
	if err != nil {
		h.logger.Warn("insight_provider_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		respondJSON(w, http.StatusOK, ai.FallbackInsight())
		return
	}

	if err := h.insights.Put(ctx, user.ID, *insight); err != nil {
		h.logger.Warn("insight_cache_write_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, insight)
}

func (h *InsightHandler) loadSnapshot(r *http.Request) (snap models.Snapshot, err error) {
	user := middleware.UserFromContext(r)
	if s, ok := h.writer.Peek(user.ID); ok {
		return s, nil
	}
	doc, err := h.snapshots.GetOrInit(r.Context(), user.ID)
	if err != nil {
		return snap, err
	}
	return doc.Snapshot(), nil
}
