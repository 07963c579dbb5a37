package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/kjstillabower/weathercom-service/internal/models"
)

// tickTimeout bounds one whole refresh cycle (two upstream calls plus
// processing); generous next to the 10s per-call timeout.
const tickTimeout = 30 * time.Second

// Refresher is the coordinator capability the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
}

// Scheduler invokes the coordinator's refresh on a fixed interval. Singleton
// mode guarantees a slow refresh is never overlapped by the next tick; the
// coordinator holds no refresh lock of its own and relies on that.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger
	onSuccess func(context.Context, models.Snapshot)
}

// New creates a Scheduler. onSuccess, if non-nil, runs after each successful
// refresh with the new snapshot (used to mirror it to the snapshot store).
func New(refresher Refresher, interval time.Duration, logger *zap.Logger, onSuccess func(context.Context, models.Snapshot)) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		logger:    logger,
		onSuccess: onSuccess,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
// The first tick fires one interval after start; the caller is expected to
// run the initial refresh itself.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.tick)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("refresh scheduler started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(ctx)
	if err != nil {
		// Already logged and recorded by the coordinator; the failed cycle
		// simply waits for the next tick.
		return
	}

	s.logger.Debug("scheduled refresh finished", zap.Duration("elapsed", time.Since(start)))
	if s.onSuccess != nil {
		s.onSuccess(ctx, snap)
	}
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
