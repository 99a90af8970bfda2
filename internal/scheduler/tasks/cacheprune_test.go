package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movierecs/movierecs/internal/scheduler"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneCache(ctx context.Context) error {
	p.calls.Add(1)
	return nil
}

func TestRegisterCachePruneTask(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	sched.Start()
	defer sched.Stop()

	pruner := &countingPruner{}
	require.NoError(t, RegisterCachePruneTask(sched, pruner, "*/30 * * * *"))

	info, err := sched.GetTask(CachePruneTaskID)
	require.NoError(t, err)
	assert.Equal(t, "Cache Prune", info.Name)
	assert.Equal(t, "*/30 * * * *", info.Cron)

	require.NoError(t, sched.RunNow(CachePruneTaskID))
	require.Eventually(t, func() bool { return pruner.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
