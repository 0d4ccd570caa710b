package graph

// Binding is what a name currently "points to": a single node, a set of
// nodes (starred unpacking, ambiguous merges), or unresolved-but-local
// (known to be a local name whose value isn't determined yet).
//
// This generalizes the teacher's Identifier-as-its-own-binding scheme
// (linage.Identifier doubled as both a node and "the thing a name is
// bound to") into the explicit tagged union spec.md §3 requires, since
// starred-unpacking needs to bind a name to a *set* of nodes.
type Binding struct {
	single     *Node
	set        []*Node
	unresolved bool
}

// Unresolved is the canonical "known local, no value yet" binding.
var Unresolved = Binding{unresolved: true}

// BindNode wraps a single node as a binding.
func BindNode(n *Node) Binding { return Binding{single: n} }

// BindSet wraps a set of nodes as an ambiguous binding.
func BindSet(nodes []*Node) Binding {
	if len(nodes) == 1 {
		return Binding{single: nodes[0]}
	}
	return Binding{set: nodes}
}

// IsUnresolved reports whether this binding carries no node(s) yet.
func (b Binding) IsUnresolved() bool {
	return b.unresolved && b.single == nil && len(b.set) == 0
}

// Nodes flattens the binding to the set of nodes it denotes. Empty for
// an unresolved binding.
func (b Binding) Nodes() []*Node {
	if b.single != nil {
		return []*Node{b.single}
	}
	return b.set
}

// Single returns the sole node of this binding, or nil if the binding
// denotes zero or more than one node.
func (b Binding) Single() *Node {
	return b.single
}
