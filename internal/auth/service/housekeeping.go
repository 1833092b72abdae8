package service

import (
	"context"
	"log/slog"
	"time"
)

// DefaultHousekeepingInterval is how often expired revocations are pruned.
// The revocation set only grows between prunes, bounded by token TTL, so
// this does not need to be aggressive.
const DefaultHousekeepingInterval = 5 * time.Minute

// HousekeepingService runs periodic maintenance in the background. Right
// now that is pruning the revocation set; anything else recurring belongs
// here too.
type HousekeepingService struct {
	Revoked  *MemoryRevocationStore
	Interval time.Duration
	Logger   *slog.Logger
}

func NewHousekeepingService(revoked *MemoryRevocationStore, interval time.Duration, logger *slog.Logger) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HousekeepingService{Revoked: revoked, Interval: interval, Logger: logger}
}

// Run blocks until ctx is cancelled, pruning on every tick.
func (s *HousekeepingService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Logger.Info("housekeeping started", slog.Duration("interval", s.Interval))

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("housekeeping stopped")
			return
		case now := <-ticker.C:
			removed := s.Revoked.PruneExpired(now)
			if removed > 0 {
				s.Logger.Debug("pruned expired revocations",
					slog.Int("removed", removed),
					slog.Int("remaining", s.Revoked.Len()))
			}
		}
	}
}
