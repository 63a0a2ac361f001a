package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
)

// DefaultExpiredRetention keeps expired invitations around for a while so a
// director can still see why a link stopped working.
const DefaultExpiredRetention = 7 * 24 * time.Hour

// HousekeepingService periodically deletes invitations that were never
// redeemed and expired more than Retention ago. Redeemed tokens are kept as
// the record of who joined through which link.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour, a negative retention to DefaultExpiredRetention.
func NewHousekeepingService(
	s store.Store,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention < 0 {
		retention = DefaultExpiredRetention
	}

	return &HousekeepingService{
		Store:     s,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the sweep loop in the background. Call Stop to end it.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweepAndLog()

	for {
		select {
		case <-ticker.C:
			s.sweepAndLog()
		case <-s.stopCh:
			return
		}
	}
}

// Sweep deletes unused invitations that expired before now - Retention and
// returns how many were removed.
func (s *HousekeepingService) Sweep(ctx context.Context) (int64, error) {
	cutoff := clock(s.Now).Add(-s.Retention)
	return s.Store.Tokens().DeleteExpiredTokens(ctx, cutoff)
}

func (s *HousekeepingService) sweepAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		s.Logger.Error("failed to delete expired invitations", slog.Any("error", err))
		return
	}
	s.Logger.Info("housekeeping sweep completed", slog.Int64("deleted_invitations", n))
}
