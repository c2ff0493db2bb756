package workers

import (
	"context"
	"time"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/store"
)

// DenylistJanitor periodically deletes consumed-token rows whose expiry has
// passed. Expired rows are dead weight: the tokens they guard can no longer
// pass signature validation, so dropping them never reopens a replay window.
type DenylistJanitor struct {
	denylist store.TokenDenylistRepository
	interval time.Duration

	quit chan struct{}
	done chan struct{}

	logger *logger.Logger
}

func NewDenylistJanitor(denylist store.TokenDenylistRepository, interval time.Duration, logger *logger.Logger) *DenylistJanitor {
	return &DenylistJanitor{
		denylist: denylist,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run starts the purge loop in a background goroutine and returns
// immediately. The loop runs until [DenylistJanitor.Stop] is called.
func (j *DenylistJanitor) Run() {
	j.logger.Info().Dur("interval", j.interval).Msg("denylist janitor started")

	go func() {
		defer close(j.done)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.purge(context.Background())
			case <-j.quit:
				return
			}
		}
	}()
}

// Stop terminates the purge loop and waits for it to finish.
func (j *DenylistJanitor) Stop() {
	close(j.quit)
	<-j.done
	j.logger.Info().Msg("denylist janitor stopped")
}

func (j *DenylistJanitor) purge(ctx context.Context) {
	purged, err := j.denylist.PurgeExpired(ctx, time.Now())
	if err != nil {
		j.logger.Err(err).Msg("purging expired denylist entries failed")
		return
	}

	if purged > 0 {
		j.logger.Info().Int64("purged", purged).Msg("expired denylist entries removed")
	}
}
