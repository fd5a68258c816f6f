package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// SummaryDays is how many recent days of performance go into the prompt
	SummaryDays = 7

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"

	insightSystemPrompt = "You are a world-class productivity coach. Analyze the user's progress, " +
		"provide 3 concrete suggestions for improvement, and one high-energy motivational quote. " +
		"Respond with valid JSON only, with keys: analysis (string), suggestions (array of 3 strings), " +
		"motivationalQuote (string)."
)

// OpenAIProvider implements InsightProvider using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// HabitInsights analyzes recent habit performance and returns coaching text
func (p *OpenAIProvider) HabitInsights(ctx context.Context, habitList []models.Habit, logs models.CompletionLog) (*models.AIInsight, error) {
	prompt := buildInsightPrompt(habitList, logs)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(insightSystemPrompt),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	requestID := ExtractRequestID(ctx)
	userIDStr := ExtractUserID(ctx)

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "habit_insights"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("user_id", userIDStr),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "habit_insights"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("user_id", userIDStr),
				zap.String("request_id", requestID),
				zap.Duration("latency_ms", latency),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to generate insight: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to generate insight: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "habit_insights"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("user_id", userIDStr),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return parseInsightResponse(content)
}

// buildInsightPrompt renders the habit names plus a compact recent
// performance summary, one line per day.
func buildInsightPrompt(habitList []models.Habit, logs models.CompletionLog) string {
	names := make([]string, 0, len(habitList))
	for _, h := range habitList {
		names = append(names, h.Name)
	}

	var b strings.Builder
	b.WriteString("Habits: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\nRecent performance data:\n")

	for _, date := range recentLoggedDates(logs, SummaryDays) {
		fmt.Fprintf(&b, "%s: %d/%d habits done\n", date, logs.CompletedCount(date), len(habitList))
	}

	return b.String()
}

// recentLoggedDates returns up to n most recent dates present in the log,
// oldest first.
func recentLoggedDates(logs models.CompletionLog, n int) []string {
	dates := make([]string, 0, len(logs))
	for date := range logs {
		if habits.ValidDate(date) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	if len(dates) > n {
		dates = dates[len(dates)-n:]
	}
	return dates
}

// parseInsightResponse parses the JSON payload, tolerating providers that
// wrap the object in prose by extracting the outermost braces.
func parseInsightResponse(content string) (*models.AIInsight, error) {
	raw := content
	var insight models.AIInsight
	if err := json.Unmarshal([]byte(raw), &insight); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), &insight); err != nil {
			return nil, fmt.Errorf("failed to parse insight response: %w", err)
		}
	}

	if insight.Analysis == "" {
		return nil, fmt.Errorf("insight response missing analysis")
	}
	if len(insight.Suggestions) == 0 {
		return nil, fmt.Errorf("insight response missing suggestions")
	}

	return &insight, nil
}
