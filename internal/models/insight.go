package models

import (
	"time"

	"github.com/google/uuid"
)

// AIInsight is the structured coaching text returned by the AI collaborator
type AIInsight struct {
	Analysis          string   `json:"analysis"`
	Suggestions       []string `json:"suggestions"`
	MotivationalQuote string   `json:"motivationalQuote"`
}

// CachedInsight is a stored insight with its generation time, served while
// fresh instead of calling the provider again.
type CachedInsight struct {
	UserID      uuid.UUID `json:"user_id"`
	Insight     AIInsight `json:"insight"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DayData is one heatmap cell: a date, its raw completion count, and the
// 0-4 intensity bucket.
type DayData struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}
