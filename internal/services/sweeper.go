package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/repository"
)

// BlacklistSweeper purges revocation-ledger entries whose retention deadline
// has passed. It runs on its own ticker, decoupled from request handling.
type BlacklistSweeper struct {
	blacklist repository.BlacklistRepository
	interval  time.Duration
	logger    *zap.SugaredLogger
}

func NewBlacklistSweeper(blacklist repository.BlacklistRepository, interval time.Duration, logger *zap.SugaredLogger) *BlacklistSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BlacklistSweeper{blacklist: blacklist, interval: interval, logger: logger}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (w *BlacklistSweeper) Run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *BlacklistSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := w.blacklist.DeleteExpired(sweepCtx, time.Now())
	if err != nil {
		w.logger.Errorf("Blacklist sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		w.logger.Infof("Expired blacklisted tokens removed from the database: %d", deleted)
	}
}
