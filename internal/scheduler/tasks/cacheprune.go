package tasks

import (
	"context"
	"time"

	"github.com/movierecs/movierecs/internal/scheduler"
)

const CachePruneTaskID = "cache-prune"

// CachePruner drops expired cached catalog responses.
type CachePruner interface {
	PruneCache(ctx context.Context) error
}

// RegisterCachePruneTask registers the response cache prune task with the
// scheduler. It clears expired entries from the memory and persistent tiers.
func RegisterCachePruneTask(sched *scheduler.Scheduler, pruner CachePruner, cron string) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          CachePruneTaskID,
		Name:        "Cache Prune",
		Description: "Removes expired catalog responses from the response cache",
		Cron:        cron,
		RunOnStart:  false,
		Timeout:     time.Minute,
		Func:        pruner.PruneCache,
	})
}
