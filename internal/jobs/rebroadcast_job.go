package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hawker/internal/core/application/pending"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// RebroadcastJob periodically republishes new_order events for pending
// orders that have waited longer than minAge. An order submitted while no
// picker was connected would otherwise only resurface when a picker
// re-registers; the rebroadcast pushes it back onto the bus so every
// process re-announces it.
type RebroadcastJob struct {
	pendingCache *pending.Cache
	publisher    ports.EventPublisher
	cron         *cron.Cron
	interval     time.Duration
	minAge       time.Duration
	logger       *slog.Logger
}

// NewRebroadcastJob creates the job. interval controls how often the pending
// set is scanned, minAge how long an order must have been waiting before it
// is re-announced.
func NewRebroadcastJob(
	pendingCache *pending.Cache,
	publisher ports.EventPublisher,
	interval time.Duration,
	minAge time.Duration,
	logger *slog.Logger,
) (*RebroadcastJob, error) {
	if pendingCache == nil {
		return nil, errs.NewValueIsRequiredError("pendingCache")
	}
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if interval <= 0 {
		return nil, errs.NewValueIsInvalidError("interval")
	}
	if minAge <= 0 {
		return nil, errs.NewValueIsInvalidError("minAge")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RebroadcastJob{
		pendingCache: pendingCache,
		publisher:    publisher,
		cron:         cron.New(cron.WithSeconds()),
		interval:     interval,
		minAge:       minAge,
		logger:       logger.With("component", "rebroadcast_job"),
	}, nil
}

// Start schedules the periodic scan.
func (j *RebroadcastJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("rebroadcast job started",
		"interval", j.interval, "min_age", j.minAge)
	return nil
}

// Stop stops the scheduled scans.
func (j *RebroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.Info("rebroadcast job stopped")
}

// RunOnce scans the pending set and republishes every entry older than
// minAge. Publish failures are logged and do not stop the scan.
func (j *RebroadcastJob) RunOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.minAge)

	for _, snapshot := range j.pendingCache.All() {
		if snapshot.CreatedAt.After(cutoff) {
			continue
		}

		err := j.publisher.Publish(ctx, events.NewOrder{
			OrderID: snapshot.OrderID,
			Order:   snapshot,
		})
		if err != nil {
			j.logger.Error("rebroadcast failed",
				"order_id", snapshot.OrderID, "error", err)
			continue
		}
		j.logger.Info("rebroadcast pending order", "order_id", snapshot.OrderID)
	}
}
