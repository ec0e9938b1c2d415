package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredReleaser is the slice of InventoryService the sweeper needs.
type ExpiredReleaser interface {
	ReleaseExpired(ctx context.Context) (int, error)
}

// Sweeper periodically releases reservations past their expiry. A single
// goroutine consumes the ticker, so sweeps never overlap; ticks that fire
// while a sweep is still running are dropped. Per-tick failures are logged
// and the loop keeps running.
type Sweeper struct {
	svc      ExpiredReleaser
	interval time.Duration
	logger   *zap.Logger
}

const defaultSweepInterval = 5 * time.Minute

func NewSweeper(svc ExpiredReleaser, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reservation sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	released, err := s.svc.ReleaseExpired(ctx)
	if err != nil {
		s.logger.Error("release expired reservations", zap.Error(err))
		return
	}
	if released > 0 {
		s.logger.Info("released expired reservations", zap.Int("count", released))
	}
}
