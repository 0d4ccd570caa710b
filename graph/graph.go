package graph

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Graph is the node registry plus the defines/uses edge sets — the
// output artifact described in spec.md §6. It mirrors the role the
// teacher's linage.PackageModel played (Idents + Scopes + DataFlows),
// narrowed to the two edge kinds this spec defines.
type Graph struct {
	nodes   map[NodeKey]*Node
	order   []NodeKey // insertion order, for stable node iteration
	defines []Edge
	uses    []Edge

	// ColorByFile and Annotate mirror the like-named analyzer options
	// (spec.md §6); the core computes them but a writer decides whether
	// and how to render them.
	ColorByFile bool
	Annotate    bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: map[NodeKey]*Node{}}
}

// GetOrCreate returns the canonical node for (namespace, name), creating
// it with the given flavor if absent. Calling it with a concrete flavor
// upgrades a pre-existing unknown in place, leaving every edge already
// incident on it valid (spec.md §4.2).
func (g *Graph) GetOrCreate(namespace, name string, flavor NodeFlavor, ast *sitter.Node) *Node {
	key := NodeKey{Namespace: namespace, Name: name}
	if n, ok := g.nodes[key]; ok {
		if flavor != Unknown && n.Flavor == Unknown {
			n.Flavor = flavor
			n.ASTNode = ast
		}
		return n
	}
	n := &Node{Key: key, Flavor: flavor, ASTNode: ast, Own: map[string]Binding{}}
	g.nodes[key] = n
	g.order = append(g.order, key)
	return n
}

// Intern registers an already-constructed node (used when the caller has
// populated location/AST fields up front), upgrading an existing
// unknown's flavor in place rather than replacing the Node pointer so
// existing edges remain valid.
func (g *Graph) Intern(n *Node) *Node {
	if existing, ok := g.nodes[n.Key]; ok {
		if existing.Flavor == Unknown && n.Flavor != Unknown {
			existing.Flavor = n.Flavor
			existing.ASTNode = n.ASTNode
			existing.Filename = n.Filename
			existing.Line = n.Line
			existing.Col = n.Col
			existing.Bases = n.Bases
		}
		return existing
	}
	if n.Own == nil {
		n.Own = map[string]Binding{}
	}
	g.nodes[n.Key] = n
	g.order = append(g.order, n.Key)
	return n
}

// Lookup returns the node for (namespace, name), or nil if absent.
func (g *Graph) Lookup(namespace, name string) *Node {
	return g.nodes[NodeKey{Namespace: namespace, Name: name}]
}

// LookupKey returns the node for key, or nil if absent.
func (g *Graph) LookupKey(key NodeKey) *Node {
	return g.nodes[key]
}

// AllNodes returns every interned node in insertion order, for the
// postprocessor (spec.md §4.2).
func (g *Graph) AllNodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.nodes[k])
	}
	return out
}

// AddEdge records an edge of the given kind, keeping node and edge
// creation symmetric (both endpoints must already be interned). spec.md
// §3 states this as an invariant, not a recoverable condition: an edge
// whose endpoint was never interned indicates a bug in the caller, not a
// routine unresolved reference (those always go through GetOrCreate first,
// see analyzer/resolver.go's unknown()), so it panics rather than silently
// dropping the edge.
func (g *Graph) AddEdge(from, to NodeKey, kind EdgeKind) {
	if _, ok := g.nodes[from]; !ok {
		panic(&InvariantError{Detail: "AddEdge: source " + from.FQN() + " is not interned"})
	}
	if _, ok := g.nodes[to]; !ok {
		panic(&InvariantError{Detail: "AddEdge: target " + to.FQN() + " is not interned"})
	}
	e := Edge{From: from, To: to, Kind: kind}
	if kind == Defines {
		g.defines = append(g.defines, e)
	} else {
		g.uses = append(g.uses, e)
	}
}

// DefinesEdges returns the defines edges in stable sorted order.
func (g *Graph) DefinesEdges() []Edge { return sortedEdges(g.defines) }

// UsesEdges returns the uses edges in stable sorted order.
func (g *Graph) UsesEdges() []Edge { return sortedEdges(g.uses) }

// ReplaceEdges installs new defines/uses edge sets, used by the
// postprocessor after wildcard contraction and dedup.
func (g *Graph) ReplaceEdges(defines, uses []Edge) {
	g.defines = defines
	g.uses = uses
}

// RemoveNodes deletes the given keys from the registry (used by the
// postprocessor's unknown-removal and orphan-pruning steps).
func (g *Graph) RemoveNodes(keys map[NodeKey]bool) {
	if len(keys) == 0 {
		return
	}
	newOrder := g.order[:0]
	for _, k := range g.order {
		if keys[k] {
			delete(g.nodes, k)
			continue
		}
		newOrder = append(newOrder, k)
	}
	g.order = newOrder
}

func sortedEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return lessKey(out[i].From, out[j].From)
		}
		return lessKey(out[i].To, out[j].To)
	})
	return out
}

func lessKey(a, b NodeKey) bool {
	if a.Namespace != b.Namespace {
		return a.Namespace < b.Namespace
	}
	return a.Name < b.Name
}

// DedupEdges collapses duplicate edges (spec.md §4.7.3 / §8: "emitting
// the same edge twice produces one edge"), preserving sorted order.
func DedupEdges(edges []Edge) []Edge {
	sorted := sortedEdges(edges)
	out := sorted[:0]
	var prev *Edge
	for i := range sorted {
		e := sorted[i]
		if prev != nil && *prev == e {
			continue
		}
		out = append(out, e)
		prevCopy := e
		prev = &prevCopy
	}
	return out
}

// AssignColors assigns each distinct source filename a deterministic hue
// index across all interned nodes, for callers that enabled
// color_by_file (spec.md §6). Purely cosmetic: a writer may ignore it.
func (g *Graph) AssignColors() {
	files := map[string]bool{}
	for _, n := range g.AllNodes() {
		if n.Filename != "" {
			files[n.Filename] = true
		}
	}
	names := make([]string, 0, len(files))
	for f := range files {
		names = append(names, f)
	}
	sort.Strings(names)
	index := make(map[string]int, len(names))
	for i, f := range names {
		index[f] = i
	}
	for _, n := range g.AllNodes() {
		n.Color = index[n.Filename]
	}
}
