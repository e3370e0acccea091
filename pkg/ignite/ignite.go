// Package ignite provides a small embeddable facade over the engine for
// callers that want the key-value store in-process rather than over the
// network -- the same engine the server wraps, without a socket in
// between.
package ignite

import (
	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// Instance is an in-process handle to an ignite store.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this instance.
}

// NewInstance opens (or creates) an ignite store at the configured data
// directory and returns an Instance ready for Set/Get/Remove.
func NewInstance(service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(&engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores value under key, overwriting any existing value.
func (i *Instance) Set(key, value string) error {
	return i.engine.Set(key, value)
}

// Get returns the value stored under key and whether it was found.
func (i *Instance) Get(key string) (string, bool, error) {
	return i.engine.Get(key)
}

// Remove deletes key. It fails if the key had no live value.
func (i *Instance) Remove(key string) error {
	return i.engine.Remove(key)
}

// Close releases the instance's underlying segment store.
func (i *Instance) Close() error {
	return i.engine.Close()
}
