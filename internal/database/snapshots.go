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

// SnapshotRepository stores the per-user state document: the full
// {habits, logs, stats} snapshot as JSONB columns, replaced whole on every
// write (last-writer-wins).
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get retrieves a user's document. Returns (nil, nil) when the user has no
// document yet; callers initialize from models.EmptySnapshot.
func (r *SnapshotRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error) {
	var habitsJSON, logsJSON, statsJSON []byte
	doc := &models.UserDocument{UserID: userID}

	query := `
		SELECT habits, logs, stats, updated_at
		FROM user_data
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&habitsJSON,
		&logsJSON,
		&statsJSON,
		&doc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	if err := json.Unmarshal(habitsJSON, &doc.Habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal habits: %w", err)
	}
	if err := json.Unmarshal(logsJSON, &doc.Logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal logs: %w", err)
	}
	if err := json.Unmarshal(statsJSON, &doc.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return doc, nil
}

// GetOrInit retrieves a user's document, creating an empty one on first
// read so the client always receives a well-formed snapshot.
func (r *SnapshotRepository) GetOrInit(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error) {
	doc, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		return doc, nil
	}

	empty := models.EmptySnapshot()
	if err := r.Put(ctx, userID, empty); err != nil {
		return nil, err
	}
	return &models.UserDocument{
		UserID:    userID,
		Habits:    empty.Habits,
		Logs:      empty.Logs,
		Stats:     empty.Stats,
		UpdatedAt: time.Now(),
	}, nil
}

// Put replaces a user's document with the given snapshot. There is no merge
// and no conflict detection: the latest write is authoritative.
func (r *SnapshotRepository) Put(ctx context.Context, userID uuid.UUID, snap models.Snapshot) error {
	if snap.Habits == nil {
		snap.Habits = []models.Habit{}
	}
	if snap.Logs == nil {
		snap.Logs = models.CompletionLog{}
	}

	habitsJSON, err := json.Marshal(snap.Habits)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}
	logsJSON, err := json.Marshal(snap.Logs)
	if err != nil {
		return fmt.Errorf("failed to marshal logs: %w", err)
	}
	statsJSON, err := json.Marshal(snap.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := `
		INSERT INTO user_data (user_id, habits, logs, stats, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			habits = EXCLUDED.habits,
			logs = EXCLUDED.logs,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, habitsJSON, logsJSON, statsJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to store user data: %w", err)
	}

	return nil
}
