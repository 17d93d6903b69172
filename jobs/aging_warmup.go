package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
	jobmetrics "github.com/Arooma21/Odoo-Dashboard/internal/jobs"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportWarmer is the slice of the report service the warmup job touches.
type ReportWarmer interface {
	RefreshSnapshot(ctx context.Context) (recv.Snapshot, error)
	Summary(ctx context.Context) (recv.SummaryReport, error)
	BucketDetail(ctx context.Context, bucket string) (recv.DetailReport, error)
}

// AgingWarmupJob refreshes the ledger snapshot on a schedule and
// pre-computes the report views so the first dashboard hit after a
// refresh stays fast.
type AgingWarmupJob struct {
	Reports ReportWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAgingWarmupJob wires dependencies for the warmup handler.
func NewAgingWarmupJob(reports ReportWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *AgingWarmupJob {
	return &AgingWarmupJob{
		Reports: reports,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes aging warmup tasks.
func (j *AgingWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("aging warmup: handler not configured")
	}
	var payload AgingWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskRecvAgingWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting aging warmup", slog.Bool("warm_details", payload.WarmDetails))
	start := j.now()

	snap, err := j.Reports.RefreshSnapshot(ctx)
	if err != nil {
		resultErr = err
		logger.Error("refresh snapshot", slog.Any("error", err))
		return resultErr
	}

	if _, err := j.Reports.Summary(ctx); err != nil {
		resultErr = err
		logger.Error("warm summary", slog.Any("error", err))
		return resultErr
	}

	if payload.WarmDetails {
		g, gctx := errgroup.WithContext(ctx)
		for _, b := range aging.AllBuckets {
			bucket := string(b)
			g.Go(func() error {
				warmCtx, cancel := context.WithTimeout(gctx, 20*time.Second)
				defer cancel()
				_, err := j.Reports.BucketDetail(warmCtx, bucket)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			resultErr = err
			logger.Error("warm bucket details", slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed aging warmup",
		slog.String("snapshot_id", snap.ID),
		slog.Int("items", len(snap.Items)),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *AgingWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRecvAgingWarmup))
	}
	return slog.Default().With(slog.String("job", TaskRecvAgingWarmup))
}

func (j *AgingWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AgingWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
