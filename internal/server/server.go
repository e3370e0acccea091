// Package server implements the accept loop that turns incoming TCP
// connections into engine operations: verify the on-disk engine marker,
// bind, then for every connection clone the engine handle and dispatch a
// handler closure onto the worker pool.
package server

import (
	"bufio"
	"net"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/pool"
	"github.com/iamNilotpal/ignite/internal/protocol"
	"github.com/iamNilotpal/ignite/pkg/errors"
)

// New verifies the engine-selection marker and builds a Server ready to
// Listen. It does not bind a socket yet.
func New(config *Config) (*Server, error) {
	if config == nil || config.Options == nil || config.Logger == nil || config.Engine == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "server configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	if err := engine.CheckMarker(config.Options); err != nil {
		return nil, err
	}

	workers, err := pool.New(&pool.Config{Size: config.Options.WorkerPoolSize, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	return &Server{options: config.Options, log: config.Logger, engine: config.Engine, pool: workers}, nil
}

// ListenAndServe binds the configured address and runs the accept loop
// until the listener is closed. It returns nil only after Close is called
// from another goroutine; any other return is a bind failure. A failed
// Accept is logged and the loop continues.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.options.ListenAddr)
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to bind listener").
			WithOperation("Listen").WithDetail("addr", s.options.ListenAddr)
	}
	s.listener = listener
	s.log.Infow("server listening", "addr", s.options.ListenAddr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			s.log.Errorw("accept failed", "error", err)
			continue
		}

		handlerEngine := s.engine.Clone()
		if err := s.pool.Spawn(func() { s.handle(conn, handlerEngine) }); err != nil {
			s.log.Errorw("failed to dispatch connection", "error", err)
			_ = conn.Close()
		}
	}
}

// Close stops the accept loop and waits for in-flight handlers to finish.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.pool.Close()
	return err
}

// handle serves exactly one request/response pair on conn, then closes it.
// A request that cannot be read is logged and the connection is dropped
// without a reply; an engine failure is logged and converted to an error
// Response. Neither stops the accept loop.
func (s *Server) handle(conn net.Conn, eng *engine.Engine) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	req, err := protocol.ReadRequest(r)
	if err != nil {
		s.log.Errorw("failed to read request, dropping connection", "error", err, "remote", conn.RemoteAddr())
		return
	}

	resp := s.dispatch(eng, req)
	if err := protocol.WriteResponse(w, resp); err != nil {
		s.log.Errorw("failed to write response", "error", err, "remote", conn.RemoteAddr())
	}
}

// dispatch runs req against eng and maps the outcome to a Response.
func (s *Server) dispatch(eng *engine.Engine, req protocol.Request) protocol.Response {
	switch req.Kind {
	case protocol.KindSet:
		if err := eng.Set(req.Key, req.Value); err != nil {
			s.log.Errorw("set failed", "key", req.Key, "error", err)
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OkResponse()

	case protocol.KindGet:
		value, found, err := eng.Get(req.Key)
		if err != nil {
			s.log.Errorw("get failed", "key", req.Key, "error", err)
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.GetResponse(value, found)

	case protocol.KindRemove:
		if err := eng.Remove(req.Key); err != nil {
			if ee, ok := errors.AsEngineError(err); ok && ee.Code() == errors.ErrorCodeKeyNotFound {
				s.log.Warnw("remove against missing key", "key", req.Key)
				return protocol.ErrorResponse(protocol.KeyNotFoundMessage)
			}
			s.log.Errorw("remove failed", "key", req.Key, "error", err)
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OkResponse()

	default:
		return protocol.ErrorResponse("unknown request kind")
	}
}
