package pool

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Job is a single unit of work submitted to the pool. It carries no
// result and no error channel: callers that need a result close over one
// themselves, the same way the server closes over a connection.
type Job func()

// Pool is a fixed-size set of worker goroutines draining a single
// unbounded FIFO queue. Submitted jobs run in no particular order across
// workers; a worker whose job panics is replaced so the pool's effective
// concurrency is restored before it is next observed idle.
type Pool struct {
	log  *zap.SugaredLogger
	size int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed atomic.Bool

	alive atomic.Int32
	wg    sync.WaitGroup
}

// Config carries the dependencies a Pool needs at construction time.
type Config struct {
	Size   int
	Logger *zap.SugaredLogger
}
