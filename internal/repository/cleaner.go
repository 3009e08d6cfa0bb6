package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartExpiredTokenCleaner sweeps expired reset tokens with interval
func StartExpiredTokenCleaner(
	ctx context.Context,
	registry *ResetTokenRegistry,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := registry.EvictExpired(); removed > 0 {
					log.Info("evicted expired reset tokens", zap.Int("removed", removed))
				}
			}
		}
	}()
}
