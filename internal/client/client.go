// Package client implements the one-shot request/response client used by
// the ignite-client CLI: connect, issue exactly one Set, Get or Remove,
// parse the response, and map it onto a Go error where appropriate.
package client

import (
	"bufio"
	stdErrors "errors"
	"net"

	"github.com/iamNilotpal/ignite/internal/protocol"
	"github.com/iamNilotpal/ignite/pkg/errors"
)

// ErrKeyNotFound is returned by Remove when the server reports the key has
// no live entry. Get does not return it: a missing key comes back from Get
// as ("", false, nil).
var ErrKeyNotFound = stdErrors.New("Key not found")

// Client holds an open connection to one ignite server. It is meant for
// one or a few operations per process; it does not pool or reuse
// connections.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// Dial connects to addr and returns a Client ready to issue one request.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to connect to server").
			WithOperation("Dial").WithDetail("addr", addr)
	}
	return &Client{conn: conn, r: bufio.NewReader(conn), w: bufio.NewWriter(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Set stores value under key. A non-nil error is always a generic failure;
// the server never rejects a well-formed Set for any other reason.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(protocol.NewSetRequest(key, value))
	if err != nil {
		return err
	}
	if resp.Kind == protocol.RespError {
		return stdErrors.New(resp.Error)
	}
	if resp.Kind != protocol.RespOk {
		return protocolError(resp)
	}
	return nil
}

// Get returns the value stored under key and whether it was found. A
// missing key comes back as ("", false, nil), matching the engine's own
// contract.
func (c *Client) Get(key string) (string, bool, error) {
	resp, err := c.roundTrip(protocol.NewGetRequest(key))
	if err != nil {
		return "", false, err
	}
	if resp.Kind == protocol.RespError {
		return "", false, stdErrors.New(resp.Error)
	}
	if resp.Kind != protocol.RespGet {
		return "", false, protocolError(resp)
	}
	return resp.Value, resp.Found, nil
}

// Remove deletes key. It returns ErrKeyNotFound when the server reports
// the key had no live entry, and a generic error for anything else.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(protocol.NewRemoveRequest(key))
	if err != nil {
		return err
	}
	if resp.Kind == protocol.RespError {
		if resp.Error == protocol.KeyNotFoundMessage {
			return ErrKeyNotFound
		}
		return stdErrors.New(resp.Error)
	}
	if resp.Kind != protocol.RespOk {
		return protocolError(resp)
	}
	return nil
}

func (c *Client) roundTrip(req protocol.Request) (protocol.Response, error) {
	if err := protocol.WriteRequest(c.w, req); err != nil {
		return protocol.Response{}, err
	}
	resp, err := protocol.ReadResponse(c.r)
	if err != nil {
		return protocol.Response{}, err
	}
	return resp, nil
}

func protocolError(resp protocol.Response) error {
	return errors.NewEngineError(
		nil, errors.ErrorCodeProtocol, "response kind does not match request kind",
	).WithOperation("RoundTrip").WithDetail("responseKind", string(resp.Kind))
}
