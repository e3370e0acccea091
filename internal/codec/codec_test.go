package codec_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/iamNilotpal/ignite/internal/codec"
	ierrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	entry := codec.NewSetEntry("a", "1")

	n, err := codec.WriteFrame(&buf, entry)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	payload, total, err := codec.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, n, total)

	var decoded codec.Entry
	require.NoError(t, codec.UnmarshalPayload(payload, &decoded))
	require.Equal(t, entry, decoded)
}

func TestTwoConcatenatedEntriesParseInOrder(t *testing.T) {
	var buf bytes.Buffer

	first := codec.NewSetEntry("a", "1")
	second := codec.NewRemoveEntry("a")

	_, err := codec.WriteFrame(&buf, first)
	require.NoError(t, err)
	_, err = codec.WriteFrame(&buf, second)
	require.NoError(t, err)

	reader := codec.NewReader(&buf)

	payload1, _, err := codec.ReadFrame(reader)
	require.NoError(t, err)
	var e1 codec.Entry
	require.NoError(t, codec.UnmarshalPayload(payload1, &e1))
	require.True(t, e1.IsSet())
	require.Equal(t, "a", e1.Key)

	payload2, _, err := codec.ReadFrame(reader)
	require.NoError(t, err)
	var e2 codec.Entry
	require.NoError(t, codec.UnmarshalPayload(payload2, &e2))
	require.True(t, e2.IsRemove())
}

func TestReadFrameReturnsEOFAtBoundary(t *testing.T) {
	_, _, err := codec.ReadFrame(strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadFrameDetectsTruncation(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.WriteFrame(&buf, codec.NewSetEntry("a", "1"))
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-2]
	_, _, err = codec.ReadFrame(bytes.NewReader(truncated))
	require.Error(t, err)

	ce, ok := ierrors.AsCodecError(err)
	require.True(t, ok)
	require.True(t, ce.Truncated())
}

func TestDecodeRawRejectsLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	_, err := codec.WriteFrame(&buf, codec.NewSetEntry("a", "1"))
	require.NoError(t, err)

	var decoded codec.Entry
	err = codec.DecodeRaw(buf.Bytes()[:buf.Len()-1], &decoded)
	require.Error(t, err)
}
