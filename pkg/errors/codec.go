package errors

// CodecError is a specialized error type for serialization failures: a
// truncated or corrupt log record on disk, or a malformed message on the
// wire. It distinguishes a clean end-of-stream at a record boundary
// (which is not an error at all) from genuine truncation/corruption.
type CodecError struct {
	*baseError
	segmentID uint16 // Segment the truncated/corrupt record was read from, if applicable.
	offset    int64  // Byte offset of the record that failed to decode.
	truncated bool   // True when input ended mid-record rather than failing a checksum.
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// WithSegmentID records which segment was being decoded.
func (ce *CodecError) WithSegmentID(id uint16) *CodecError {
	ce.segmentID = id
	return ce
}

// WithOffset records the byte offset of the failing record.
func (ce *CodecError) WithOffset(offset int64) *CodecError {
	ce.offset = offset
	return ce
}

// WithTruncated marks the error as a truncated-input failure rather than a
// checksum mismatch.
func (ce *CodecError) WithTruncated(truncated bool) *CodecError {
	ce.truncated = truncated
	return ce
}

// SegmentID returns the segment the failing record came from.
func (ce *CodecError) SegmentID() uint16 {
	return ce.segmentID
}

// Offset returns the byte offset of the failing record.
func (ce *CodecError) Offset() int64 {
	return ce.offset
}

// Truncated reports whether the failure was truncated input as opposed to
// a checksum mismatch on a complete record.
func (ce *CodecError) Truncated() bool {
	return ce.truncated
}
