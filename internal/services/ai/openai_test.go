package ai

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

func TestBuildInsightPrompt(t *testing.T) {
	t.Parallel()

	h1 := uuid.New()
	h2 := uuid.New()
	habitList := []models.Habit{
		{ID: h1, Name: "Meditate"},
		{ID: h2, Name: "Read 20 pages"},
	}
	logs := models.CompletionLog{
		"2026-08-28": {h1.String(): true, h2.String(): true},
		"2026-08-29": {h1.String(): true, h2.String(): false},
	}

	prompt := buildInsightPrompt(habitList, logs)

	if !strings.Contains(prompt, "Meditate, Read 20 pages") {
		t.Errorf("prompt missing habit names: %q", prompt)
	}
	if !strings.Contains(prompt, "2026-08-28: 2/2 habits done") {
		t.Errorf("prompt missing full day summary: %q", prompt)
	}
	if !strings.Contains(prompt, "2026-08-29: 1/2 habits done") {
		t.Errorf("prompt missing partial day summary: %q", prompt)
	}
	// chronological order
	if strings.Index(prompt, "2026-08-28") > strings.Index(prompt, "2026-08-29") {
		t.Errorf("days out of order: %q", prompt)
	}
}

func TestRecentLoggedDatesCapsWindow(t *testing.T) {
	t.Parallel()

	logs := models.CompletionLog{}
	for _, d := range []string{
		"2026-08-20", "2026-08-21", "2026-08-22", "2026-08-23",
		"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27",
		"2026-08-28", "not-a-date",
	} {
		logs[d] = map[string]bool{}
	}

	dates := recentLoggedDates(logs, 7)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2026-08-22" || dates[6] != "2026-08-28" {
		t.Errorf("wrong window: %v", dates)
	}
}

func TestParseInsightResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "clean JSON",
			content: `{"analysis":"Doing well","suggestions":["a","b","c"],"motivationalQuote":"Go!"}`,
		},
		{
			name:    "JSON wrapped in prose",
			content: "Here is your insight:\n{\"analysis\":\"Doing well\",\"suggestions\":[\"a\"],\"motivationalQuote\":\"Go!\"}\nEnjoy!",
		},
		{
			name:    "missing analysis",
			content: `{"suggestions":["a"],"motivationalQuote":"Go!"}`,
			wantErr: true,
		},
		{
			name:    "missing suggestions",
			content: `{"analysis":"ok","motivationalQuote":"Go!"}`,
			wantErr: true,
		},
		{
			name:    "not JSON at all",
			content: "sorry, I cannot help with that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			insight, err := parseInsightResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if insight.Analysis != "Doing well" {
				t.Errorf("analysis = %q", insight.Analysis)
			}
		})
	}
}

func TestFallbackInsight(t *testing.T) {
	t.Parallel()

	insight := FallbackInsight()
	if insight.Analysis == "" {
		t.Error("fallback analysis is empty")
	}
	if len(insight.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(insight.Suggestions))
	}
	if insight.MotivationalQuote == "" {
		t.Error("fallback quote is empty")
	}
}

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	registry := NewProviderRegistry()
	RegisterOpenAI(registry)

	provider, err := registry.GetProvider("openai", map[string]string{
		"api_key": "test-key",
		"model":   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("provider is nil")
	}

	if _, err := registry.GetProvider("unknown", nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
