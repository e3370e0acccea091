package server

import (
	"net"
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/pool"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Server accepts TCP connections, dispatches each to the worker pool, and
// has the handler invoke the engine and write back a Response. It holds no
// request state across connections beyond the engine and pool it was built
// with.
type Server struct {
	options *options.Options
	log     *zap.SugaredLogger

	engine *engine.Engine
	pool   *pool.Pool

	listener net.Listener
	closed   atomic.Bool
}

// Config carries the dependencies a Server needs at construction time.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	Engine  *engine.Engine
}
