// Package codec implements the self-delimiting framing used for every
// record this store ever writes down or sends over a socket: a log entry
// on disk and a request/response on the wire share the exact same frame
// shape, just with a different JSON payload underneath.
//
// Frame layout:
//
//	[4 bytes big-endian payload length][8 bytes xxh3 checksum][payload]
//
// The checksum guards against a torn write (process killed mid-append); the
// length prefix lets a reader know exactly how many bytes to pull off the
// wire or out of a segment without scanning for a delimiter.
package codec

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"

	ierrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/zeebo/xxh3"
)

// headerLen is the fixed size of the length+checksum prefix that precedes
// every JSON payload.
const headerLen = 4 + 8

// EntryOp identifies what a log entry represents.
type EntryOp string

const (
	OpSet    EntryOp = "set"
	OpRemove EntryOp = "remove"
)

// Entry is a single record appended to a segment file: either a key/value
// write or a tombstone marking a key removed.
type Entry struct {
	Op    EntryOp `json:"op"`
	Key   string  `json:"key"`
	Value string  `json:"value,omitempty"`
}

// NewSetEntry builds the entry recorded by a Set operation.
func NewSetEntry(key, value string) Entry {
	return Entry{Op: OpSet, Key: key, Value: value}
}

// NewRemoveEntry builds the tombstone entry recorded by a Remove operation.
func NewRemoveEntry(key string) Entry {
	return Entry{Op: OpRemove, Key: key}
}

// IsSet reports whether the entry is a key/value write.
func (e Entry) IsSet() bool { return e.Op == OpSet }

// IsRemove reports whether the entry is a tombstone.
func (e Entry) IsRemove() bool { return e.Op == OpRemove }

// WriteFrame marshals v and writes it to w as a length+checksum-prefixed
// frame. It returns the total number of bytes written, which callers use
// directly as the Length half of an index Position.
func WriteFrame(w io.Writer, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, ierrors.NewCodecError(err, ierrors.ErrorCodeCodec, "failed to marshal frame payload")
	}

	var hdr [headerLen]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint64(hdr[4:headerLen], xxh3.Hash(payload))

	if _, err := w.Write(hdr[:]); err != nil {
		return 0, ierrors.NewCodecError(err, ierrors.ErrorCodeIO, "failed to write frame header")
	}
	if _, err := w.Write(payload); err != nil {
		return 0, ierrors.NewCodecError(err, ierrors.ErrorCodeIO, "failed to write frame payload")
	}

	return headerLen + len(payload), nil
}

// ReadFrame reads one frame from r and returns its raw payload bytes along
// with the total number of bytes the frame occupied.
//
// It returns io.EOF, unwrapped, when r is exhausted exactly at a frame
// boundary -- the expected, non-error way a sequential scan of a segment
// ends. Any other read failure, including a header or payload cut short
// mid-frame, comes back as a *ierrors.CodecError with Truncated set, so
// callers can tell "nothing more to read" apart from "the log ends in a
// torn write".
func ReadFrame(r io.Reader) ([]byte, int, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, ierrors.NewCodecError(err, ierrors.ErrorCodeCodec, "truncated frame header").
			WithTruncated(true)
	}

	length := binary.BigEndian.Uint32(hdr[0:4])
	checksum := binary.BigEndian.Uint64(hdr[4:headerLen])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, 0, ierrors.NewCodecError(err, ierrors.ErrorCodeCodec, "truncated frame payload").
			WithTruncated(true)
	}

	if xxh3.Hash(payload) != checksum {
		return nil, 0, ierrors.NewCodecError(nil, ierrors.ErrorCodeCodec, "frame checksum mismatch").
			WithTruncated(false)
	}

	return payload, headerLen + len(payload), nil
}

// DecodeRaw parses a raw byte slice that is known to hold exactly one
// complete frame -- as stored at an index Position -- into v. Unlike
// ReadFrame it does not tolerate trailing or missing bytes: the slice must
// be exactly the frame's length.
func DecodeRaw(raw []byte, v any) error {
	if len(raw) < headerLen {
		return ierrors.NewCodecError(nil, ierrors.ErrorCodeCodec, "frame shorter than header").WithTruncated(true)
	}

	length := binary.BigEndian.Uint32(raw[0:4])
	checksum := binary.BigEndian.Uint64(raw[4:headerLen])
	payload := raw[headerLen:]

	if uint32(len(payload)) != length {
		return ierrors.NewCodecError(nil, ierrors.ErrorCodeCodec, "frame length mismatch").WithTruncated(true)
	}
	if xxh3.Hash(payload) != checksum {
		return ierrors.NewCodecError(nil, ierrors.ErrorCodeCodec, "frame checksum mismatch")
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return ierrors.NewCodecError(err, ierrors.ErrorCodeCodec, "failed to unmarshal frame payload")
	}
	return nil
}

// NewReader wraps r for buffered sequential frame reads, used when
// replaying a segment from offset zero.
func NewReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}

// UnmarshalPayload decodes a payload already extracted by ReadFrame (header
// and checksum stripped, already verified) into v.
func UnmarshalPayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return ierrors.NewCodecError(err, ierrors.ErrorCodeCodec, "failed to unmarshal frame payload")
	}
	return nil
}
