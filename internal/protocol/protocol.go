// Package protocol defines the Request/Response messages exchanged between
// client and server and the framed read/write built on top of the codec.
// A connection carries exactly the same self-delimiting frame shape the
// segment store uses for log entries: a length+checksum header followed by
// a JSON payload.
package protocol

import (
	"bufio"

	"github.com/iamNilotpal/ignite/internal/codec"
	"github.com/iamNilotpal/ignite/pkg/errors"
)

// RequestKind identifies which of the three operations a Request carries.
type RequestKind string

const (
	KindSet    RequestKind = "set"
	KindGet    RequestKind = "get"
	KindRemove RequestKind = "remove"
)

// Request is the message a client sends: which operation, and the key
// (plus value, for Set) it applies to.
type Request struct {
	Kind  RequestKind `json:"kind"`
	Key   string      `json:"key"`
	Value string      `json:"value,omitempty"`
}

// NewSetRequest builds a Set request.
func NewSetRequest(key, value string) Request {
	return Request{Kind: KindSet, Key: key, Value: value}
}

// NewGetRequest builds a Get request.
func NewGetRequest(key string) Request {
	return Request{Kind: KindGet, Key: key}
}

// NewRemoveRequest builds a Remove request.
func NewRemoveRequest(key string) Request {
	return Request{Kind: KindRemove, Key: key}
}

// ResponseKind identifies which variant a Response carries.
type ResponseKind string

const (
	RespOk    ResponseKind = "ok"
	RespGet   ResponseKind = "get"
	RespError ResponseKind = "error"
)

// Response is the message the server sends back. Found/Value are only
// meaningful when Kind is RespGet; Error is only meaningful when Kind is
// RespError.
type Response struct {
	Kind  ResponseKind `json:"kind"`
	Found bool         `json:"found,omitempty"`
	Value string       `json:"value,omitempty"`
	Error string       `json:"error,omitempty"`
}

// OkResponse builds the plain success response Set and Remove return.
func OkResponse() Response {
	return Response{Kind: RespOk}
}

// GetResponse builds the response to a Get request: found/value when the
// key existed, !found otherwise -- never an error for a missing key.
func GetResponse(value string, found bool) Response {
	return Response{Kind: RespGet, Found: found, Value: value}
}

// ErrorResponse builds a human-readable error response. "Key not found" is
// the one error string with defined client-side meaning; every other
// string is a generic failure.
func ErrorResponse(msg string) Response {
	return Response{Kind: RespError, Error: msg}
}

// KeyNotFoundMessage is the exact error string the client matches against
// to distinguish a missing-key Remove from any other failure.
const KeyNotFoundMessage = "Key not found"

// WriteRequest encodes req as a frame and flushes w.
func WriteRequest(w *bufio.Writer, req Request) error {
	if _, err := codec.WriteFrame(w, req); err != nil {
		return err
	}
	return flush(w)
}

// WriteResponse encodes resp as a frame and flushes w.
func WriteResponse(w *bufio.Writer, resp Response) error {
	if _, err := codec.WriteFrame(w, resp); err != nil {
		return err
	}
	return flush(w)
}

// ReadRequest reads one framed Request from r.
func ReadRequest(r *bufio.Reader) (Request, error) {
	var req Request
	if err := readFrame(r, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ReadResponse reads one framed Response from r.
func ReadResponse(r *bufio.Reader) (Response, error) {
	var resp Response
	if err := readFrame(r, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func readFrame(r *bufio.Reader, v any) error {
	payload, _, err := codec.ReadFrame(r)
	if err != nil {
		return err
	}
	return codec.UnmarshalPayload(payload, v)
}

func flush(w *bufio.Writer) error {
	if err := w.Flush(); err != nil {
		return errors.NewCodecError(err, errors.ErrorCodeIO, "failed to flush connection")
	}
	return nil
}
