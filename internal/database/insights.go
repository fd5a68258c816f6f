package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow/internal/models"
)

// InsightRepository caches the most recent AI insight per user so the
// dashboard can render without a live provider call.
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Get retrieves the cached insight for a user, or (nil, nil) when none is
// stored.
func (r *InsightRepository) Get(ctx context.Context, userID uuid.UUID) (*models.CachedInsight, error) {
	var insightJSON []byte
	cached := &models.CachedInsight{UserID: userID}

	query := `
		SELECT insight, generated_at
		FROM user_insights
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&insightJSON, &cached.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}

	if err := json.Unmarshal(insightJSON, &cached.Insight); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
	}

	return cached, nil
}

// Put stores or replaces the cached insight for a user.
func (r *InsightRepository) Put(ctx context.Context, userID uuid.UUID, insight models.AIInsight) error {
	insightJSON, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("failed to marshal insight: %w", err)
	}

	query := `
		INSERT INTO user_insights (user_id, insight, generated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			insight = EXCLUDED.insight,
			generated_at = EXCLUDED.generated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, insightJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to store insight: %w", err)
	}

	return nil
}
