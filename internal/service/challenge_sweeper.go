package service

import (
	"context"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
)

// RunChallengeSweeper periodically purges challenge rows that expired long
// ago. Verification already clears an expired challenge the moment someone
// presents it; the sweep only reclaims rows nobody ever came back for.
// Blocks until ctx is cancelled.
func RunChallengeSweeper(ctx context.Context, challenges repository.ChallengeRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := challenges.DeleteExpired(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Challenge sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "Purged expired challenges", "count", n)
			}
		}
	}
}
