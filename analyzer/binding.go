package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/callgraph/graph"
)

// evaluateExpr computes what an expression currently denotes, without
// emitting any edges — the binding engine's "value tracking" half of
// spec.md §4.4, kept deliberately separate from use-edge emission
// (visitor.go) the way the teacher keeps identifier construction
// (identifier.go) separate from edge emission (analyzer.go's walk).
func (a *Analyzer) evaluateExpr(n *sitter.Node, scope *graph.Scope, src []byte) graph.Binding {
	if n == nil {
		return graph.Unresolved
	}
	switch n.Type() {
	case "identifier":
		name := text(n, src)
		if b, ok := scope.Lookup(name); ok {
			return b
		}
		// Not a known local/param/global anywhere on the chain: treat as
		// an external or builtin reference, denoted by a wildcard node
		// (a load of such a name gets its uses edge to that wildcard in
		// visitor.go's emitIdentifierUse, not here).
		return graph.BindNode(a.unknown(name))
	case "attribute":
		obj := n.ChildByFieldName("object")
		attrNode := n.ChildByFieldName("attribute")
		if attrNode == nil {
			return graph.Unresolved
		}
		name := text(attrNode, src)
		if isSuperCall(obj, src) {
			return a.resolveAttribute(graph.BindNode(a.resolveSuper(enclosingClassNode(scope))), name)
		}
		base := a.evaluateExpr(obj, scope, src)
		return a.resolveAttribute(base, name)
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return a.evaluateExpr(n.NamedChild(0), scope, src)
		}
		return graph.Unresolved
	default:
		// Calls (other than super()), subscripts, literals, comprehensions,
		// binary/boolean expressions: the value they produce is not
		// statically tracked (spec.md §9's documented imprecision — this
		// analyzer tracks name/attribute bindings, not general data flow).
		return graph.Unresolved
	}
}

func isSuperCall(n *sitter.Node, src []byte) bool {
	if n == nil || n.Type() != "call" {
		return false
	}
	fn := n.ChildByFieldName("function")
	return fn != nil && fn.Type() == "identifier" && text(fn, src) == "super"
}

// gatherAssignmentParts flattens a (possibly chained) assignment node into
// its list of targets and its final right-hand-side expression.
// `a = b = expr` parses as a right-nested assignment node
// (left=a, right=assignment(left=b, right=expr)); this unwinds that nesting
// into []targets{a, b}, expr.
func gatherAssignmentParts(n *sitter.Node) (targets []*sitter.Node, rhs *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil, nil
	}
	if right.Type() == "assignment" {
		innerTargets, innerRHS := gatherAssignmentParts(right)
		return append([]*sitter.Node{left}, innerTargets...), innerRHS
	}
	return []*sitter.Node{left}, right
}

// walkAssignment binds every target of a (possibly chained) assignment to
// the evaluated right-hand side, and emits uses for the right-hand side and
// for any non-identifier target's base expression.
func (a *Analyzer) walkAssignment(n *sitter.Node, scope *graph.Scope, src []byte) {
	targets, rhs := gatherAssignmentParts(n)
	if rhs == nil {
		return
	}
	a.walkStmt(rhs, scope, src)
	value := a.evaluateExpr(rhs, scope, src)
	for _, t := range targets {
		a.walkTargetUses(t, scope, src)
		a.bindTarget(t, value, rhs, scope, src)
	}
}

func (a *Analyzer) walkAugAssignment(n *sitter.Node, scope *graph.Scope, src []byte) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if right != nil {
		a.walkStmt(right, scope, src)
	}
	if left == nil {
		return
	}
	a.walkTargetUses(left, scope, src)
	if left.Type() == "identifier" {
		a.emitIdentifierUse(left, scope, src)
	}
	// The combined value of an augmented assignment isn't statically
	// tracked; the target remains a known local with no determined value.
	a.bindTarget(left, graph.Unresolved, nil, scope, src)
}

// walkTargetUses emits uses for the parts of an assignment target that are
// themselves reads: the object of `obj.attr` / `obj[key]`, recursively
// through tuple/list/starred patterns. A bare identifier target is a pure
// write and contributes no use.
func (a *Analyzer) walkTargetUses(t *sitter.Node, scope *graph.Scope, src []byte) {
	if t == nil {
		return
	}
	switch t.Type() {
	case "identifier":
		return
	case "attribute", "subscript":
		if obj := t.ChildByFieldName("object"); obj != nil {
			a.walkStmt(obj, scope, src)
		}
	case "tuple_pattern", "list_pattern", "pattern_list", "tuple", "list", "list_splat_pattern":
		for i := 0; i < int(t.NamedChildCount()); i++ {
			a.walkTargetUses(t.NamedChild(i), scope, src)
		}
	}
}

// bindTarget applies value to a single assignment target, dispatching on
// its syntactic shape (spec.md §4.4).
func (a *Analyzer) bindTarget(target *sitter.Node, value graph.Binding, rhs *sitter.Node, scope *graph.Scope, src []byte) {
	if target == nil {
		return
	}
	switch target.Type() {
	case "identifier":
		scope.Bind(text(target, src), value)
	case "attribute":
		obj := target.ChildByFieldName("object")
		attrNode := target.ChildByFieldName("attribute")
		if obj == nil || attrNode == nil {
			return
		}
		attr := text(attrNode, src)
		base := a.evaluateExpr(obj, scope, src)
		for _, n := range base.Nodes() {
			if n.Flavor != graph.Class && n.Flavor != graph.Module {
				continue
			}
			if n.Own == nil {
				n.Own = map[string]graph.Binding{}
			}
			n.Own[attr] = value
		}
	case "subscript":
		// Container mutation via `obj[key] = value` is not tracked as a
		// binding; the container's own identity is unaffected.
	case "tuple_pattern", "list_pattern", "pattern_list", "tuple", "list":
		a.bindPattern(target, value, rhs, scope, src)
	default:
		for i := 0; i < int(target.NamedChildCount()); i++ {
			a.bindTarget(target.NamedChild(i), value, rhs, scope, src)
		}
	}
}

// bindPattern implements tuple/list unpacking, including the single-starred
// target case, per spec.md §4.4: when the right-hand side is itself a
// literal tuple/list/expression_list of matching shape, unpacking is
// precise; otherwise every target falls back to the union of everything
// the right-hand side could denote (a documented overapproximation).
func (a *Analyzer) bindPattern(pattern *sitter.Node, value graph.Binding, rhs *sitter.Node, scope *graph.Scope, src []byte) {
	elems := namedChildren(pattern)
	starIdx := -1
	for i, e := range elems {
		if e.Type() == "list_splat_pattern" {
			starIdx = i
			break
		}
	}
	rhsElems := literalElements(rhs)

	if starIdx == -1 && rhsElems != nil && len(rhsElems) == len(elems) {
		for i, e := range elems {
			a.bindTarget(e, a.evaluateExpr(rhsElems[i], scope, src), rhsElems[i], scope, src)
		}
		return
	}

	if starIdx >= 0 && rhsElems != nil && len(rhsElems) >= len(elems)-1 {
		before, after := starIdx, len(elems)-starIdx-1
		for i := 0; i < before; i++ {
			a.bindTarget(elems[i], a.evaluateExpr(rhsElems[i], scope, src), rhsElems[i], scope, src)
		}
		middleCount := len(rhsElems) - before - after
		var middle []*graph.Node
		for i := 0; i < middleCount; i++ {
			middle = append(middle, a.evaluateExpr(rhsElems[before+i], scope, src).Nodes()...)
		}
		if starTarget := firstNamedChild(elems[starIdx]); starTarget != nil {
			a.bindTarget(starTarget, graph.BindSet(middle), nil, scope, src)
		}
		for i := 0; i < after; i++ {
			a.bindTarget(elems[before+1+i], a.evaluateExpr(rhsElems[len(rhsElems)-after+i], scope, src), nil, scope, src)
		}
		return
	}

	// Cartesian overapproximation: the shape can't be matched
	// positionally, so every target (starred targets unwrapped) gets the
	// whole right-hand-side binding — for a literal right-hand side, the
	// union of what its elements denote.
	if rhsElems != nil {
		var all []*graph.Node
		for _, r := range rhsElems {
			all = append(all, a.evaluateExpr(r, scope, src).Nodes()...)
		}
		if len(all) > 0 {
			value = graph.BindSet(dedupNodes(all))
		}
	}
	for _, e := range elems {
		t := e
		if e.Type() == "list_splat_pattern" {
			if inner := firstNamedChild(e); inner != nil {
				t = inner
			}
		}
		a.bindTarget(t, value, rhs, scope, src)
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// literalElements returns the element expressions of a literal
// tuple/list/expression_list RHS, or nil if rhs isn't one of those (meaning
// its runtime shape can't be determined statically).
func literalElements(rhs *sitter.Node) []*sitter.Node {
	if rhs == nil {
		return nil
	}
	switch rhs.Type() {
	case "tuple", "list", "expression_list":
		return namedChildren(rhs)
	}
	return nil
}

func dottedText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Type() != "dotted_name" {
		return text(n, src)
	}
	parts := make([]string, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		parts = append(parts, text(n.NamedChild(i), src))
	}
	return strings.Join(parts, ".")
}

func lastSegment(s string) string {
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
