package app

import (
	"context"
	"log/slog"
	"time"
)

type expiredGrantDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// startGrantSweeper periodically removes grant rows past their expiry.
// Expiry enforcement does not depend on the sweeper; validation rejects
// stale grants on its own. The sweeper only keeps the table from
// growing without bound.
func startGrantSweeper(ctx context.Context, log *slog.Logger, grants expiredGrantDeleter, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := grants.DeleteExpired(ctx)
				if err != nil {
					log.Error("failed to sweep expired grants", slog.String("error", err.Error()))
					continue
				}
				if removed > 0 {
					log.Debug("swept expired grants", slog.Int64("removed", removed))
				}
			}
		}
	}()
}
