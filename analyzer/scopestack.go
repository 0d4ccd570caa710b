package analyzer

import "github.com/viant/callgraph/graph"

// The lexical scope stack spec.md §4.3 describes is realized here as the
// chain of *graph.Scope values threaded through the declare and walk
// passes' own recursive calls, rather than a separately maintained mutable
// stack object: each walk* method receives "the current scope" as a
// parameter and passes a child scope to its own recursive calls, so the Go
// call stack doubles as the push/pop discipline — entering a nested scope
// is a call one frame deeper, leaving it is returning. graph.Scope.Parent
// (graph/scope.go) plus graph.Scope.Lookup/ContainingNodeScope implement
// the inner-to-outer search spec.md requires of it.

// bindReceiver binds a method's first parameter to the enclosing class
// node, since the target language passes the receiver explicitly
// (spec.md §4.3): inside `def method(self, ...)`, `self` resolves to the
// class being defined.
func bindReceiver(methodScope *graph.Scope, receiverParam string, class *graph.Node) {
	if receiverParam == "" || class == nil {
		return
	}
	methodScope.Bind(receiverParam, graph.BindNode(class))
}
