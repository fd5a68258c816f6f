package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/queue"
)

type mockProvider struct {
	insight *models.AIInsight
	err     error
	calls   int
}

func (m *mockProvider) HabitInsights(_ context.Context, _ []models.Habit, _ models.CompletionLog) (*models.AIInsight, error) {
	m.calls++
	return m.insight, m.err
}

type mockSnapshots struct {
	doc *models.UserDocument
	err error
}

func (m *mockSnapshots) Get(_ context.Context, _ uuid.UUID) (*models.UserDocument, error) {
	return m.doc, m.err
}

func (m *mockSnapshots) GetOrInit(_ context.Context, userID uuid.UUID) (*models.UserDocument, error) {
	if m.doc != nil {
		return m.doc, m.err
	}
	return &models.UserDocument{UserID: userID}, m.err
}

func (m *mockSnapshots) Put(_ context.Context, _ uuid.UUID, _ models.Snapshot) error {
	return nil
}

type mockInsights struct {
	mu     sync.Mutex
	cached map[uuid.UUID]models.AIInsight
	err    error
}

func newMockInsights() *mockInsights {
	return &mockInsights{cached: make(map[uuid.UUID]models.AIInsight)}
}

func (m *mockInsights) Get(_ context.Context, userID uuid.UUID) (*models.CachedInsight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if insight, ok := m.cached[userID]; ok {
		return &models.CachedInsight{UserID: userID, Insight: insight, GeneratedAt: time.Now()}, nil
	}
	return nil, nil
}

func (m *mockInsights) Put(_ context.Context, userID uuid.UUID, insight models.AIInsight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cached[userID] = insight
	return nil
}

type mockJobQueue struct {
	mu       sync.Mutex
	enqueued []*queue.Job
}

func (m *mockJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockJobQueue) Dequeue(_ context.Context) (*queue.Message, error) { return nil, nil }

func (m *mockJobQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (m *mockJobQueue) Close() error                          { return nil }
func (m *mockJobQueue) HealthCheck(_ context.Context) error   { return nil }

func docWithHabit(userID uuid.UUID) *models.UserDocument {
	habitID := uuid.New()
	return &models.UserDocument{
		UserID: userID,
		Habits: []models.Habit{{ID: habitID, Name: "Meditate", Difficulty: 2}},
		Logs: models.CompletionLog{
			"2026-08-29": {habitID.String(): true},
		},
	}
}

func TestProcessInsightRefreshJobCachesResult(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &mockProvider{insight: &models.AIInsight{
		Analysis:    "Strong week",
		Suggestions: []string{"keep going"},
	}}
	insights := newMockInsights()
	refresher := NewInsightRefresher(provider, &mockSnapshots{doc: docWithHabit(userID)}, insights, &mockJobQueue{}, nil)

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, nil)
	if err := refresher.ProcessInsightRefreshJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, _ := insights.Get(context.Background(), userID)
	if cached == nil {
		t.Fatal("expected insight to be cached")
	}
	if cached.Insight.Analysis != "Strong week" {
		t.Errorf("cached wrong insight: %+v", cached.Insight)
	}
}

func TestProcessInsightRefreshJobRequeuesEarlyJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &mockProvider{insight: &models.AIInsight{Analysis: "x", Suggestions: []string{"y"}}}
	jobQueue := &mockJobQueue{}
	refresher := NewInsightRefresher(provider, &mockSnapshots{doc: docWithHabit(userID)}, newMockInsights(), jobQueue, nil)

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, nil)
	notBefore := time.Now().Add(time.Hour)
	job.NotBefore = &notBefore

	if err := refresher.ProcessInsightRefreshJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls != 0 {
		t.Error("provider should not be called before the job is eligible")
	}
	if len(jobQueue.enqueued) != 1 {
		t.Fatalf("expected 1 re-enqueued job, got %d", len(jobQueue.enqueued))
	}
}

func TestProcessInsightRefreshJobSkipsExpired(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &mockProvider{}
	refresher := NewInsightRefresher(provider, &mockSnapshots{doc: docWithHabit(userID)}, newMockInsights(), &mockJobQueue{}, nil)

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, nil)
	notAfter := time.Now().Add(-time.Minute)
	job.NotAfter = &notAfter

	if err := refresher.ProcessInsightRefreshJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 0 {
		t.Error("expired job should not reach the provider")
	}
}

func TestProcessInsightRefreshJobSkipsEmptyState(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &mockProvider{}
	refresher := NewInsightRefresher(provider, &mockSnapshots{doc: nil}, newMockInsights(), &mockJobQueue{}, nil)

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, nil)
	if err := refresher.ProcessInsightRefreshJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 0 {
		t.Error("provider should not be called without stored state")
	}
}

func TestProcessInsightRefreshJobProviderFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &mockProvider{err: errors.New("api down")}
	refresher := NewInsightRefresher(provider, &mockSnapshots{doc: docWithHabit(userID)}, newMockInsights(), &mockJobQueue{}, nil)

	job := queue.NewJob(queue.JobTypeInsightRefresh, userID, nil)
	if err := refresher.ProcessInsightRefreshJob(context.Background(), job); err == nil {
		t.Fatal("expected error when provider fails")
	}
}
