package graph

import "fmt"

// InvariantError reports a broken internal invariant (spec.md §3/§7): a
// condition the core's own contracts guarantee should never occur, as
// opposed to a routine unresolved reference. It is raised via panic, never
// returned, since spec.md treats this class of failure as a bug rather
// than something a caller can recover from mid-analysis.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Detail)
}

// EdgeKind is the label of an Edge: spec.md recognizes exactly two
// relations between nodes.
type EdgeKind int

const (
	Defines EdgeKind = iota
	Uses
)

func (k EdgeKind) String() string {
	if k == Defines {
		return "defines"
	}
	return "uses"
}

// Edge is a directed, labeled pair of node keys. Edges are deduplicated
// within a label by the postprocessor (spec.md §4.7.3).
type Edge struct {
	From NodeKey
	To   NodeKey
	Kind EdgeKind
}
