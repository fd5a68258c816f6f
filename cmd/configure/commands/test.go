package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/queue"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test service connectivity",
		Long:  "Verify that the database, Redis, and RabbitMQ configured in the environment are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			fmt.Println("✓ Database is reachable")

			limiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("redis connection failed: %w", err)
			}
			defer func() {
				_ = limiter.Close()
			}()
			if err := limiter.Ping(ctx); err != nil {
				return fmt.Errorf("redis ping failed: %w", err)
			}
			fmt.Println("✓ Redis is reachable")

			if cfg.RabbitMQURL == "" {
				fmt.Println("- RabbitMQ not configured, skipping")
			} else {
				jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
				if err != nil {
					return fmt.Errorf("rabbitmq connection failed: %w", err)
				}
				defer func() {
					_ = jobQueue.Close()
				}()
				if err := jobQueue.HealthCheck(ctx); err != nil {
					return fmt.Errorf("rabbitmq health check failed: %w", err)
				}
				fmt.Println("✓ RabbitMQ is reachable")
			}

			if cfg.OpenAIKey == "" {
				fmt.Println("- OPENAI_API_KEY not set, AI insights will use the static fallback")
			} else {
				fmt.Println("✓ OpenAI API key configured")
			}

			fmt.Println("\n✓ Connectivity test passed")
			return nil
		},
	}

	return cmd
}
