package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shoepoint/shoepoint/internal/analytics"
)

// AnalyticsWarmupJob pre-populates the analytics caches so the first
// dashboard hit after an invalidation stays fast.
type AnalyticsWarmupJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, logger *slog.Logger) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{Analytics: analyticsSvc, Logger: logger}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	views := payload.Views
	if len(views) == 0 {
		views = []string{"overview", "revenue", "trend", "products", "categories", "customers", "geography", "segments"}
	}

	var warmed int
	for _, view := range views {
		var err error
		switch view {
		case "overview":
			_, err = j.Analytics.Overview(ctx)
		case "revenue":
			_, err = j.Analytics.Revenue(ctx)
		case "trend":
			_, err = j.Analytics.Trend(ctx)
		case "products":
			_, err = j.Analytics.Products(ctx, analytics.DefaultRankLimit)
		case "categories":
			_, err = j.Analytics.Categories(ctx, analytics.DefaultRankLimit)
		case "customers":
			_, err = j.Analytics.Customers(ctx, analytics.DefaultRankLimit)
		case "geography":
			_, err = j.Analytics.Geography(ctx, analytics.DefaultRankLimit)
		case "segments":
			_, _, err = j.Analytics.Segments(ctx)
		default:
			j.logger().Warn("analytics warmup skipped unknown view", slog.String("view", view))
			continue
		}
		if err != nil {
			return err
		}
		warmed++
	}

	j.logger().Info("analytics warmup complete", slog.Int("views", warmed))
	return nil
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
