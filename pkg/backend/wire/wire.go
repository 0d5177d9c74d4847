package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cuemby/ariadne/pkg/cypher/eval"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/types"
)

// RequestKind selects which of the four Backend verbs a Request carries
// (spec.md §4.10, §6.3).
type RequestKind string

const (
	RequestCreate   RequestKind = "create"
	RequestUpdate   RequestKind = "update"
	RequestQuery    RequestKind = "query"
	RequestShutdown RequestKind = "shutdown"
)

// Request is one message sent to the backend actor. Only the fields
// relevant to Kind are populated.
type Request struct {
	Kind RequestKind `json:"kind"`

	// Create
	Nodes []*types.GenericObject `json:"nodes,omitempty"`
	Edges []types.GraphEdge      `json:"edges,omitempty"`

	// Update
	Diff *diff.ClusterStateDiff `json:"diff,omitempty"`

	// Query: a $name-placeholder template plus its parameter map
	// (§6.3).
	Query  string         `json:"query,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ErrorKind is the wire-level error taxonomy §6.3 names — distinct from
// (and coarser than) pkg/ariaerr's seven query-evaluation kinds, since
// this is the failure classification a remote connection itself can
// report: it cannot distinguish ParseError from SchemaError, only
// whether the query round-trip failed.
type ErrorKind string

const (
	ConnectionError ErrorKind = "ConnectionError"
	QueryError      ErrorKind = "QueryError"
	CommitError     ErrorKind = "CommitError"
)

// Error is the wire-level error shape: a stable kind plus a message
// (§6.3).
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Response is one message returned by the backend actor. Err is set on
// failure, Records on a successful query; Create/Update/Shutdown
// responses carry neither.
type Response struct {
	Records []eval.Record `json:"records,omitempty"`
	Err     *Error        `json:"error,omitempty"`
}

// maxMessageBytes bounds a single frame so a corrupt or hostile length
// prefix can't make ReadMessage allocate unbounded memory.
const maxMessageBytes = 64 << 20 // 64MiB

// WriteMessage frames v as a 4-byte big-endian length prefix followed by
// its JSON encoding.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: marshal: %w", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: write body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed JSON frame from r and unmarshals
// it into v.
func ReadMessage(r io.Reader, v any) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return fmt.Errorf("wire: read length prefix: %w", err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxMessageBytes {
		return fmt.Errorf("wire: frame of %d bytes exceeds %d byte limit", n, maxMessageBytes)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("wire: read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("wire: unmarshal: %w", err)
	}
	return nil
}
