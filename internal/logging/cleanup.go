package logging

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes persisted log records older than a cutoff.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartCleanup runs a daily goroutine that deletes system logs older than retentionDays.
// It runs once immediately and stops when done is closed.
func StartCleanup(p Purger, retentionDays int, done <-chan struct{}) {
	go runCleanup(p, retentionDays, 24*time.Hour, done)
}

func runCleanup(p Purger, retentionDays int, every time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	purge := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := p.PurgeBefore(ctx, cutoff)
		if err != nil {
			slog.Warn("log cleanup failed", "error", err)
		} else if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	}

	purge()
	for {
		select {
		case <-ticker.C:
			purge()
		case <-done:
			return
		}
	}
}
