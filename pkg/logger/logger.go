// Package logger builds the zap loggers used across ignite's subsystems.
//
// Every constructor in the codebase (engine.New, storage.New, pool.New, ...)
// takes a *zap.SugaredLogger on its Config struct; this package is the single
// place that decides how that logger is built so call sites never reach for
// zap.NewProduction/zap.NewDevelopment directly.
package logger

import "go.uber.org/zap"

// New builds a production-configured, JSON-encoded logger tagged with the
// given service name. It panics if zap's internal config fails to build,
// which only happens for a malformed encoder config -- not something that
// varies at runtime.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return base.Named(service).Sugar()
}

// NewDevelopment builds a human-readable console logger that logs at debug
// level, suited for local runs and tests: far more pleasant to read in a
// terminal than production's JSON output.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return base.Named(service).Sugar()
}

// Noop returns a logger that discards everything, for tests that don't want
// log output on the wire.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
