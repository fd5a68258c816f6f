package ai

import "github.com/habitflow/habitflow/internal/models"

// FallbackInsight returns a static insight used when no provider is
// configured or a live call fails. Serving something beats a 502.
func FallbackInsight() *models.AIInsight {
	return &models.AIInsight{
		Analysis: "You're making steady progress. Consistency is key!",
		Suggestions: []string{
			"Try habit stacking: link a new habit to an existing one.",
			"Focus on your hardest habit first thing in the morning.",
			"Celebrate small wins to keep your momentum going.",
		},
		MotivationalQuote: "The only way to do great work is to love what you do. - Steve Jobs",
	}
}
