package analyzer

import "github.com/viant/callgraph/graph"

// resolveAttribute implements spec.md §4.5's resolve_attribute: given the
// binding(s) a base expression denotes, resolve `base.name` to the
// node(s) it refers to.
//
// Grounded in the teacher's attribute-chain handling spread across
// identifier.go (selector construction) and node.go (struct-field-type
// propagation via a.structFields) — generalized from Go's one-level
// struct-field lookup into the statically-computed MRO walk spec.md
// requires, since the target language has inheritance and the teacher's
// domain (Go) does not.
func (a *Analyzer) resolveAttribute(base graph.Binding, name string) graph.Binding {
	if base.IsUnresolved() {
		return graph.BindNode(a.unknown(name))
	}
	nodes := base.Nodes()
	var results []*graph.Node
	for _, n := range nodes {
		results = append(results, a.resolveAttributeOnNode(n, name)...)
	}
	if len(results) == 0 {
		return graph.BindNode(a.unknown(name))
	}
	return graph.BindSet(dedupNodes(results))
}

func (a *Analyzer) resolveAttributeOnNode(base *graph.Node, name string) []*graph.Node {
	switch base.Flavor {
	case graph.Class:
		if v, ok := base.Own[name]; ok {
			return v.Nodes()
		}
		// base.MRO[0] is the class itself, already checked via Own above,
		// so start the search one slot in. A super() proxy (see
		// resolveSuper below) already has its own MRO pre-sliced past
		// the class that called super(), so index 0 there is already
		// the next ancestor — never skip an extra slot twice.
		start := 0
		if len(base.MRO) > 0 && base.MRO[0] == base.Key {
			start = 1
		}
		for _, baseKey := range base.MRO[start:] {
			cls := a.graph.LookupKey(baseKey)
			if cls == nil {
				continue
			}
			if v, ok := cls.Own[name]; ok {
				return v.Nodes()
			}
		}
		return []*graph.Node{a.unknown(name)}
	case graph.Module:
		if v, ok := base.Own[name]; ok {
			return v.Nodes()
		}
		return []*graph.Node{a.unknown(name)}
	case graph.Function, graph.Method, graph.StaticMethod, graph.ClassMethod:
		// "it has no meaningful attribute surface here" (spec.md §4.5.3)
		return []*graph.Node{a.unknown(name)}
	default:
		return []*graph.Node{a.unknown(name)}
	}
}

// resolveSuper implements spec.md §4.5's super(): at a method call site,
// super() resolves to the lexically enclosing class's MRO starting one
// level past that class. It returns a transient, non-interned Node whose
// MRO is the enclosing class's MRO minus its own head — resolveAttribute
// then walks it exactly as it would any other class node, so super()
// needs no special-casing anywhere else in the resolver.
func (a *Analyzer) resolveSuper(enclosingClass *graph.Node) *graph.Node {
	if enclosingClass == nil || len(enclosingClass.MRO) < 2 {
		return a.unknown("super")
	}
	return &graph.Node{
		Key:    graph.NodeKey{Namespace: enclosingClass.Key.FQN(), Name: "<super>"},
		Flavor: graph.Class,
		MRO:    enclosingClass.MRO[1:],
		Own:    map[string]graph.Binding{},
	}
}

// unknown interns (or reuses) a wildcard node decorated with name, per
// spec.md's "Unknown node" definition (`*.name`).
func (a *Analyzer) unknown(name string) *graph.Node {
	return a.graph.GetOrCreate("*", name, graph.Unknown, nil)
}

func dedupNodes(nodes []*graph.Node) []*graph.Node {
	seen := map[graph.NodeKey]bool{}
	out := nodes[:0]
	for _, n := range nodes {
		if seen[n.Key] {
			continue
		}
		seen[n.Key] = true
		out = append(out, n)
	}
	return out
}
