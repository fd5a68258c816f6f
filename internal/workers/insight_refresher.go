package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/queue"
	"github.com/habitflow/habitflow/internal/services/ai"
)

// RequeueDelay is how far ahead a not-yet-eligible job is pushed back.
const RequeueDelay = 30 * time.Second

// InsightRefresher processes insight refresh jobs
type InsightRefresher struct {
	provider  ai.InsightProvider
	snapshots database.SnapshotStore
	insights  database.InsightStore
	jobQueue  queue.JobQueue // for re-enqueueing jobs that are not yet eligible
	logger    *zap.Logger
}

// NewInsightRefresher creates a new insight refresher
func NewInsightRefresher(
	provider ai.InsightProvider,
	snapshots database.SnapshotStore,
	insights database.InsightStore,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *InsightRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightRefresher{
		provider:  provider,
		snapshots: snapshots,
		insights:  insights,
		jobQueue:  jobQueue,
		logger:    logger,
	}
}

// ProcessInsightRefreshJob regenerates and caches the insight for the
// job's user.
func (w *InsightRefresher) ProcessInsightRefreshJob(ctx context.Context, job *queue.Job) error {
	if job.IsExpired() {
		w.logger.Info("insight_job_expired", zap.String("job_id", job.ID.String()))
		return nil
	}

	// A toggle burst enqueues jobs with a NotBefore in the future so the
	// insight reflects the settled state, not each intermediate click.
	if !job.ShouldProcess() {
		return w.requeue(ctx, job)
	}

	doc, err := w.snapshots.Get(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user state: %w", err)
	}
	if doc == nil {
		w.logger.Info("insight_job_skipped_no_state", zap.String("user_id", job.UserID.String()))
		return nil
	}

	snap := doc.Snapshot()
	if len(snap.Habits) == 0 {
		w.logger.Info("insight_job_skipped_no_habits", zap.String("user_id", job.UserID.String()))
		return nil
	}

	insight, err := w.provider.HabitInsights(ctx, snap.Habits, snap.Logs)
	if err != nil {
		if ai.IsQuotaError(err) {
			w.logger.Warn("insight_job_quota_exceeded", zap.String("user_id", job.UserID.String()))
			return nil
		}
		return fmt.Errorf("insight generation failed: %w", err)
	}

	if err := w.insights.Put(ctx, job.UserID, *insight); err != nil {
		return fmt.Errorf("failed to cache insight: %w", err)
	}

	w.logger.Info("insight_refreshed",
		zap.String("user_id", job.UserID.String()),
		zap.String("job_id", job.ID.String()),
	)
	return nil
}

func (w *InsightRefresher) requeue(ctx context.Context, job *queue.Job) error {
	notBefore := time.Now().Add(RequeueDelay)
	if job.NotBefore != nil && job.NotBefore.After(notBefore) {
		notBefore = *job.NotBefore
	}
	job.NotBefore = &notBefore

	if err := w.jobQueue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to re-enqueue job: %w", err)
	}
	return nil
}

// Run consumes insight jobs until the context is cancelled.
func (w *InsightRefresher) Run(ctx context.Context, prefetch int) error {
	messages, errs, err := w.jobQueue.Consume(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Error("queue_consume_error", zap.Error(err))
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *InsightRefresher) handleMessage(ctx context.Context, msg *queue.Message) {
	job := msg.GetJob()
	if job == nil || job.Type != queue.JobTypeInsightRefresh {
		if err := msg.Ack(); err != nil {
			w.logger.Error("message_ack_failed", zap.Error(err))
		}
		return
	}

	if err := w.ProcessInsightRefreshJob(ctx, job); err != nil {
		w.logger.Error("insight_job_failed",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)
		// A nack with requeue=false routes the message to the DLQ where
		// the garbage collector decides on retry vs drop.
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Error("message_nack_failed", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		w.logger.Error("message_ack_failed", zap.Error(err))
	}
}
