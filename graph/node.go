// Package graph holds the data model produced by the analyzer: nodes,
// edges, scopes and bindings. It owns no traversal logic of its own —
// analyzer walks the syntax trees and drives this package's registry.
package graph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// NodeFlavor classifies a Node the way linage.Identifier.Kind classified
// the teacher's identifiers, but as a closed enum since the postprocessor
// and attribute resolver both switch on it.
type NodeFlavor int

const (
	Unknown NodeFlavor = iota
	Module
	Class
	Function
	Method
	StaticMethod
	ClassMethod
	Name
	Attribute
)

func (f NodeFlavor) String() string {
	switch f {
	case Module:
		return "module"
	case Class:
		return "class"
	case Function:
		return "function"
	case Method:
		return "method"
	case StaticMethod:
		return "staticmethod"
	case ClassMethod:
		return "classmethod"
	case Name:
		return "name"
	case Attribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// NodeKey identifies a Node uniquely by its namespace and terminal name,
// per the spec's "(namespace, name)" identity rule.
type NodeKey struct {
	Namespace string
	Name      string
}

// FQN renders the dotted fully-qualified name of this key.
func (k NodeKey) FQN() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + "." + k.Name
}

// Node is a graph vertex: a module, class, function/method, or an
// unresolved (wildcard) placeholder awaiting postprocessing.
type Node struct {
	Key      NodeKey
	Flavor   NodeFlavor
	ASTNode  *sitter.Node
	Filename string
	Line     int
	Col      int

	// Bases holds the declared base-class keys for Class nodes, in
	// left-to-right declaration order, populated at definition time so
	// the MRO can be linearized eagerly (spec.md §4.5).
	Bases []NodeKey
	// MRO is the linearized method-resolution order for Class nodes,
	// including the class itself as the first element. Truncated (not
	// extended further) at the first unresolved or external base.
	MRO []NodeKey
	// Own is this node's own local attribute/member table: for a Class,
	// its class-body bindings (methods, class attributes); for a Module,
	// its top-level bindings. Populated by the binding engine.
	Own map[string]Binding

	// Color is a display-only hue index assigned when the caller enables
	// color_by_file (spec.md §6); the analyzer core computes it but
	// never interprets it.
	Color int
}

// IsUnknown reports whether this is a wildcard placeholder.
func (n *Node) IsUnknown() bool { return n.Flavor == Unknown }
