package client_test

import (
	"testing"
	"time"

	"github.com/iamNilotpal/ignite/internal/client"
	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/server"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

// startTestServer brings up a real server on addr backed by a fresh engine
// in a temp directory, and tears both down when the test ends.
func startTestServer(t *testing.T, addr string) {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.ListenAddr = addr
	opts.WorkerPoolSize = 4

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
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientSetThenGet(t *testing.T) {
	addr := "127.0.0.1:14211"
	startTestServer(t, addr)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, c.Set("name", "ignite"))
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()

	v, ok, err := c.Get("name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ignite", v)
}

func TestClientGetMissingKeyReturnsFalseNotError(t *testing.T) {
	addr := "127.0.0.1:14212"
	startTestServer(t, addr)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()

	v, ok, err := c.Get("does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestClientRemoveMissingKeyReturnsErrKeyNotFound(t *testing.T) {
	addr := "127.0.0.1:14213"
	startTestServer(t, addr)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()

	err = c.Remove("never-set")
	require.ErrorIs(t, err, client.ErrKeyNotFound)
}

func TestClientRemoveThenGetReportsNotFound(t *testing.T) {
	addr := "127.0.0.1:14214"
	startTestServer(t, addr)

	c, err := client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, c.Set("temp", "1"))
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, c.Remove("temp"))
	c.Close()

	c, err = client.Dial(addr)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get("temp")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDialFailsAgainstClosedPort(t *testing.T) {
	_, err := client.Dial("127.0.0.1:1")
	require.Error(t, err)
}
