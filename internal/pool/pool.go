// Package pool implements the fixed-size worker pool the server dispatches
// connection handlers onto: N goroutines draining one shared, unbounded
// FIFO queue, with a panicking worker transparently replaced so the pool's
// concurrency never degrades for long.
package pool

import (
	stdErrors "errors"
	"sync"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

// ErrPoolClosed is returned by Spawn once the pool has been closed.
var ErrPoolClosed = stdErrors.New("operation failed: pool is closed")

// New creates a Pool with config.Size worker goroutines, already running
// and waiting on the queue.
func New(config *Config) (*Pool, error) {
	if config == nil || config.Size <= 0 || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "pool configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	p := &Pool{log: config.Logger, size: config.Size}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < config.Size; i++ {
		p.spawn()
	}
	return p, nil
}

// Spawn submits job to the pool's queue. It returns immediately; job runs
// on whichever worker dequeues it next. No ordering between submitted jobs
// is guaranteed.
func (p *Pool) Spawn(job Job) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.mu.Lock()
	p.queue = append(p.queue, job)
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// Alive reports the number of worker goroutines currently running. It
// briefly dips below Size while a panicked worker's replacement is
// spinning up.
func (p *Pool) Alive() int {
	return int(p.alive.Load())
}

// Close stops accepting new jobs and waits for every in-flight job, and
// any jobs still queued, to finish before returning.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.cond.Broadcast()
	p.wg.Wait()
}

// spawn launches one worker goroutine and registers it with the wait
// group tracking pool shutdown.
func (p *Pool) spawn() {
	p.wg.Add(1)
	go p.run()
}

// run is a worker's main loop: dequeue, execute, repeat. If the job
// panics, the panic unwinds out of run (recovered by the deferred func
// below) and this goroutine exits; its replacement is spawned from the
// same defer, so the pool's alive count is restored without the caller
// ever observing a gap in service.
func (p *Pool) run() {
	defer p.wg.Done()

	p.alive.Add(1)
	defer func() {
		p.alive.Add(-1)
		if r := recover(); r != nil {
			p.log.Errorw("worker panicked, spawning replacement", "panic", r)
			p.spawn()
		}
	}()

	for {
		job, ok := p.dequeue()
		if !ok {
			return
		}
		job()
	}
}

// dequeue blocks until a job is available or the pool is closed and the
// queue has drained, in which case it returns ok=false.
func (p *Pool) dequeue() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed.Load() {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}

	job := p.queue[0]
	p.queue = p.queue[1:]
	return job, true
}
