package pool_test

import (
	"sync"
	"testing"
	"time"

	"github.com/iamNilotpal/ignite/internal/pool"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, size int) *pool.Pool {
	t.Helper()
	p, err := pool.New(&pool.Config{Size: size, Logger: logger.Noop()})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestSpawnRunsAllJobs(t *testing.T) {
	p := newPool(t, 4)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)

	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		require.NoError(t, p.Spawn(func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}))
	}
	wg.Wait()

	require.Len(t, seen, 50)
}

func TestPanickingWorkerIsReplaced(t *testing.T) {
	p := newPool(t, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Spawn(func() {
		defer wg.Done()
		panic("synthetic fault")
	}))
	wg.Wait()

	require.Eventually(t, func() bool {
		return p.Alive() == 2
	}, time.Second, time.Millisecond)

	var ran bool
	var wg2 sync.WaitGroup
	wg2.Add(1)
	require.NoError(t, p.Spawn(func() {
		defer wg2.Done()
		ran = true
	}))
	wg2.Wait()
	require.True(t, ran)
}

func TestSpawnAfterCloseFails(t *testing.T) {
	p, err := pool.New(&pool.Config{Size: 1, Logger: logger.Noop()})
	require.NoError(t, err)

	p.Close()
	err = p.Spawn(func() {})
	require.ErrorIs(t, err, pool.ErrPoolClosed)
}
