package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow/internal/models"
)

// SnapshotStore defines the snapshot repository operations used by handlers
// and the debounced writer. The interface enables mock implementations in
// tests.
type SnapshotStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error)
	GetOrInit(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error)
	Put(ctx context.Context, userID uuid.UUID, snap models.Snapshot) error
}

// InsightStore defines the cached-insight repository operations used by the
// insight handler and worker.
type InsightStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.CachedInsight, error)
	Put(ctx context.Context, userID uuid.UUID, insight models.AIInsight) error
}

// UserStore defines the user repository operations used by auth.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Ensure concrete types implement the interfaces
var (
	_ SnapshotStore = (*SnapshotRepository)(nil)
	_ InsightStore  = (*InsightRepository)(nil)
	_ UserStore     = (*UserRepository)(nil)
)
