package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/repository"
)

const cleanupTimeout = 30 * time.Second

// CleanupJob periodically evicts expired reputation verdicts so the cache
// does not grow with every distinct client address.
type CleanupJob struct {
	reputationCache repository.ReputationCache
	interval        time.Duration
	done            chan struct{}
	exited          chan struct{}
}

func NewCleanupJob(reputationCache repository.ReputationCache, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		reputationCache: reputationCache,
		interval:        interval,
		done:            make(chan struct{}),
		exited:          make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

// Stop ends the sweep loop and waits for an in-flight sweep to finish.
func (j *CleanupJob) Stop() {
	close(j.done)
	<-j.exited
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	defer close(j.exited)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	j.runCleanup(ctx, "reputation verdicts", j.reputationCache.DeleteExpired)
}

func (j *CleanupJob) runCleanup(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to cleanup %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("cleaned up %s", name)
	}
}
