package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserDocument is the persisted state layout for one user: the full
// snapshot plus the server-side write timestamp.
type UserDocument struct {
	UserID    uuid.UUID     `json:"user_id"`
	Habits    []Habit       `json:"habits"`
	Logs      CompletionLog `json:"logs"`
	Stats     UserStats     `json:"stats"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot extracts the core state from the document.
func (d *UserDocument) Snapshot() Snapshot {
	snap := Snapshot{Habits: d.Habits, Logs: d.Logs, Stats: d.Stats}
	if snap.Habits == nil {
		snap.Habits = []Habit{}
	}
	if snap.Logs == nil {
		snap.Logs = CompletionLog{}
	}
	return snap
}
