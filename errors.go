package tsnjitter

//
// Error types
//

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTopologyParse indicates that a topology document is malformed.
var ErrTopologyParse = errors.New("tsnjitter: invalid topology")

// ErrStreamParse indicates that a stream document is malformed.
var ErrStreamParse = errors.New("tsnjitter: invalid stream")

// ErrUnknownNode indicates that a reference names a node absent from the topology.
var ErrUnknownNode = errors.New("tsnjitter: unknown node")

// ErrUnknownPort indicates that a reference names a port absent from its node.
var ErrUnknownPort = errors.New("tsnjitter: unknown port")

// ErrInvalidPriority indicates that a priority value falls outside 0..7.
var ErrInvalidPriority = errors.New("tsnjitter: priority must be in range 0..7")

// ErrDuplicateNode indicates that a node name has already been added to a [Topology].
var ErrDuplicateNode = errors.New("tsnjitter: duplicate node")

// ErrDuplicatePort indicates that a port name has already been added to a node.
var ErrDuplicatePort = errors.New("tsnjitter: duplicate port")

// ErrNoPath indicates that no forwarding path exists between a stream's sender and receiver.
var ErrNoPath = errors.New("tsnjitter: no path between sender and receiver")

// ParseErrors aggregates every error collected while parsing a document,
// so that a caller sees all the problems with an input in a single report.
type ParseErrors struct {
	// Errors contains the list of errors.
	Errors []error
}

var _ error = &ParseErrors{}

// Error implements error.
func (e *ParseErrors) Error() string {
	var b strings.Builder
	b.WriteString("tsnjitter: parse failed: ")
	for index, err := range e.Errors {
		b.WriteString(err.Error())
		if index < len(e.Errors)-1 {
			b.WriteString("; ")
		}
	}
	return b.String()
}

// Is reports whether any collected error matches target, so that
// [errors.Is] sees through the aggregate.
func (e *ParseErrors) Is(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Add appends a formatted error to the aggregate.
func (e *ParseErrors) Add(format string, v ...any) {
	e.Errors = append(e.Errors, fmt.Errorf(format, v...))
}

// Empty returns whether no errors were collected.
func (e *ParseErrors) Empty() bool {
	return len(e.Errors) == 0
}

// AsError returns the aggregate as an error, or nil if it is empty.
func (e *ParseErrors) AsError() error {
	if e.Empty() {
		return nil
	}
	return e
}
