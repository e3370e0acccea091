package protocol_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/iamNilotpal/ignite/internal/protocol"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	req := protocol.NewSetRequest("k", "v")
	require.NoError(t, protocol.WriteRequest(w, req))

	got, err := protocol.ReadRequest(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.Equal(t, req, got)
}

func TestResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	resp := protocol.GetResponse("v", true)
	require.NoError(t, protocol.WriteResponse(w, resp))

	got, err := protocol.ReadResponse(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.Equal(t, resp, got)
}

func TestErrorResponseCarriesKeyNotFoundMessage(t *testing.T) {
	resp := protocol.ErrorResponse(protocol.KeyNotFoundMessage)
	require.Equal(t, protocol.RespError, resp.Kind)
	require.Equal(t, "Key not found", resp.Error)
}
