package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HoldSweeper releases every expired hold it can find.
type HoldSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// RunSweeper is the fallback for lost or never-enqueued release tasks. It
// blocks until ctx is done.
func RunSweeper(ctx context.Context, s HoldSweeper, every time.Duration, log *zap.Logger) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				log.Warn("hold sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired holds released", zap.Int("count", n))
			}
		}
	}
}
