package engine_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, dir string) *engine.Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	e, err := engine.New(&engine.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	return e
}

func TestSetGetRemoveScenario(t *testing.T) {
	e := newEngine(t, t.TempDir())
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e.Get("c")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, e.Remove("b"))

	_, ok, err = e.Get("b")
	require.NoError(t, err)
	require.False(t, ok)

	err = e.Remove("b")
	require.Error(t, err)
}

func TestReopenPreservesState(t *testing.T) {
	dir := t.TempDir()

	e1 := newEngine(t, dir)
	require.NoError(t, e1.Set("k", "v"))
	require.NoError(t, e1.Close())

	e2 := newEngine(t, dir)
	defer e2.Close()

	v, ok, err := e2.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestCompactionTriggersAndLeavesTwoSegments(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.StaleBytesThreshold = 2000 // small threshold so the loop below triggers compaction

	e, err := engine.New(&engine.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	defer e.Close()

	value := strings.Repeat("x", 200)
	for round := 0; round < 2; round++ {
		for i := 0; i < 100; i++ {
			require.NoError(t, e.Set(fmt.Sprintf("key%d", i), value))
		}
	}

	for i := 0; i < 100; i++ {
		v, ok, err := e.Get(fmt.Sprintf("key%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, value, v)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	logFiles := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".log" {
			logFiles++
		}
	}
	require.LessOrEqual(t, logFiles, 2)
}

func TestGetAfterCompactionStillReturnsCurrentValue(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.StaleBytesThreshold = 500

	e, err := engine.New(&engine.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("stable", "original"))

	for i := 0; i < 50; i++ {
		require.NoError(t, e.Set(fmt.Sprintf("filler%d", i%5), strings.Repeat("y", 50)))
	}

	v, ok, err := e.Get("stable")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "original", v)
}

func TestConcurrentClientsDisjointKeys(t *testing.T) {
	e := newEngine(t, t.TempDir())
	defer e.Close()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			require.NoError(t, e.Set(fmt.Sprintf("a%d", i), fmt.Sprintf("va%d", i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			require.NoError(t, e.Set(fmt.Sprintf("b%d", i), fmt.Sprintf("vb%d", i)))
		}
	}()
	wg.Wait()

	for i := 0; i < 100; i++ {
		v, ok, err := e.Get(fmt.Sprintf("a%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("va%d", i), v)

		v, ok, err = e.Get(fmt.Sprintf("b%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("vb%d", i), v)
	}
}

func TestCloneSharesUnderlyingStore(t *testing.T) {
	e := newEngine(t, t.TempDir())
	defer e.Close()

	clone := e.Clone()
	require.NoError(t, clone.Set("k", "v"))

	v, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}
