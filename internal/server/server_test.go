package server_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iamNilotpal/ignite/internal/client"
	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/server"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

const (
	dialTimeout  = 2 * time.Second
	dialInterval = 10 * time.Millisecond
)

func startServer(t *testing.T, addr string, workers int) {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.ListenAddr = addr
	opts.WorkerPoolSize = workers

	eng, err := engine.New(&engine.Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)

	srv, err := server.New(&server.Config{Options: &opts, Logger: logger.Noop(), Engine: eng})
	require.NoError(t, err)

	go srv.ListenAndServe()
	t.Cleanup(func() {
		_ = srv.Close()
		_ = eng.Close()
	})

	require.Eventually(t, func() bool {
		c, err := client.Dial(addr)
		if err != nil {
			return false
		}
		c.Close()
		return true
	}, dialTimeout, dialInterval)
}

func TestServerServesSetGetRemove(t *testing.T) {
	addr := "127.0.0.1:14117"
	startServer(t, addr, 4)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, c.Set("a", "1"))
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	v, ok, err := c.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, c.Remove("a"))
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	err = c.Remove("a")
	require.ErrorIs(t, err, client.ErrKeyNotFound)
	c.Close()
}

func TestServerHandlesConcurrentClients(t *testing.T) {
	addr := "127.0.0.1:14118"
	startServer(t, addr, 8)

	var wg sync.WaitGroup
	prefixes := []string{"a", "b"}
	for _, prefix := range prefixes {
		prefix := prefix
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c, err := client.Dial(addr)
				require.NoError(t, err)
				require.NoError(t, c.Set(fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("v%s%d", prefix, i)))
				c.Close()
			}
		}()
	}
	wg.Wait()

	for _, prefix := range prefixes {
		for i := 0; i < 100; i++ {
			c, err := client.Dial(addr)
			require.NoError(t, err)
			v, ok, err := c.Get(fmt.Sprintf("%s%d", prefix, i))
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, fmt.Sprintf("v%s%d", prefix, i), v)
			c.Close()
		}
	}
}
