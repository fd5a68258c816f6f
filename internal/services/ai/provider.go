package ai

import (
	"context"

	"github.com/habitflow/habitflow/internal/models"
)

// InsightProvider is the interface for AI coaching providers
type InsightProvider interface {
	// HabitInsights analyzes recent habit performance and returns coaching
	// text: an analysis, three suggestions, and a motivational quote.
	HabitInsights(ctx context.Context, habitList []models.Habit, logs models.CompletionLog) (*models.AIInsight, error)
}

// ProviderFactory creates an insight provider from string configuration
type ProviderFactory func(config map[string]string) (InsightProvider, error)

// ProviderRegistry stores available insight providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (InsightProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// RegisterOpenAI registers the OpenAI provider factory
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (InsightProvider, error) {
		return NewOpenAIProviderWithLogger(
			config["api_key"],
			config["base_url"],
			config["model"],
			nil,
			false,
		), nil
	})
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
