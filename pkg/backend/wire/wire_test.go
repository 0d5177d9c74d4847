package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Kind: RequestQuery, Query: "MATCH (p:Pod) RETURN p", Params: map[string]any{"ns": "default"}}
	require.NoError(t, WriteMessage(&buf, req))

	var got Request
	require.NoError(t, ReadMessage(&buf, &got))
	assert.Equal(t, req.Kind, got.Kind)
	assert.Equal(t, req.Query, got.Query)
	assert.Equal(t, "default", got.Params["ns"])
}

func TestReadMessageRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	var got Request
	err := ReadMessage(&buf, &got)
	require.Error(t, err)
}

func TestResponseErrorString(t *testing.T) {
	err := &Error{Kind: QueryError, Message: "unknown label Orbits"}
	assert.Equal(t, "QueryError: unknown label Orbits", err.Error())
}

func TestMultipleMessagesOnOneStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, Request{Kind: RequestCreate}))
	require.NoError(t, WriteMessage(&buf, Request{Kind: RequestShutdown}))

	var first, second Request
	require.NoError(t, ReadMessage(&buf, &first))
	require.NoError(t, ReadMessage(&buf, &second))
	assert.Equal(t, RequestCreate, first.Kind)
	assert.Equal(t, RequestShutdown, second.Kind)
}
