package analyzer

import (
	"fmt"

	"github.com/viant/callgraph/graph"
)

// ParseError reports that one input file failed to parse. Per spec.md
// §7 this is recoverable: the file is skipped and analysis continues
// with the remainder.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InputError reports a malformed input set (e.g. an unreadable file).
// Per spec.md §7 this is surfaced immediately; analysis is not
// attempted.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// InvariantError is graph.InvariantError (spec.md §3's invariants / §7's
// "internal invariant violation"): fatal, raised by panic rather than
// returned, recovered only at the CLI boundary (SPEC_FULL.md §7). Aliased
// here so analyzer callers needn't import the graph package just to type-
// assert on it.
type InvariantError = graph.InvariantError

func panicInvariant(format string, args ...interface{}) {
	panic(&InvariantError{Detail: fmt.Sprintf(format, args...)})
}
