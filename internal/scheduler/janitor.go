package scheduler

import (
	"context"
	"time"

	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
)

// DefaultJanitorMaxAge is how long a document may sit untouched in the
// memory store before it is pruned. Redis deployments rely on key TTLs
// instead.
const DefaultJanitorMaxAge = 90 * 24 * time.Hour

// Janitor periodically prunes abandoned documents from the in-memory
// document store.
type Janitor struct {
	docs     *docstore.MemoryStore
	logger   logger.Logger
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
}

// NewJanitor creates a janitor for the memory document store.
func NewJanitor(
	docs *docstore.MemoryStore,
	log logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *Janitor {
	if maxAge <= 0 {
		maxAge = DefaultJanitorMaxAge
	}

	return &Janitor{
		docs:     docs,
		logger:   log,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic pruning.
func (j *Janitor) Start(ctx context.Context) error {
	// Run immediately on start
	j.Sweep()

	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor.
func (j *Janitor) Stop() {
	close(j.stopCh)
}

// Sweep removes documents untouched for longer than the max age.
func (j *Janitor) Sweep() {
	cutoff := time.Now().Add(-j.maxAge)
	removed := j.docs.Prune(cutoff)

	if removed > 0 {
		j.logger.Info("pruned stale documents",
			logger.Int("removed", removed),
			logger.Int("remaining", j.docs.Count()))
	} else {
		j.logger.Debug("no stale documents to prune")
	}
}
