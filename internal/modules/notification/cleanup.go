package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type NotificationPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner periodically deletes read notifications past their retention.
type Cleaner struct {
	repo      NotificationPurger
	retention time.Duration
	now       func() time.Time
}

func NewCleaner(repo NotificationPurger, retention time.Duration) *Cleaner {
	return &Cleaner{repo: repo, retention: retention, now: time.Now}
}

func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	start := c.now()
	deleted, err := c.repo.DeleteOlderThan(ctx, start.Add(-c.retention))
	if err != nil {
		return 0, err
	}
	log.Info().Int64("deleted", deleted).Dur("took", time.Since(start)).Msg("notification cleanup completed")
	return deleted, nil
}

// Start runs RunOnce every interval until ctx is done. The returned channel
// closes once the loop has exited.
func (c *Cleaner) Start(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := c.RunOnce(ctx); err != nil {
					log.Warn().Err(err).Msg("notification cleanup failed")
				}
			case <-ctx.Done():
				log.Info().Msg("notification cleanup stopped")
				return
			}
		}
	}()
	return done
}
