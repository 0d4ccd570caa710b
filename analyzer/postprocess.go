package analyzer

import (
	"go.uber.org/zap"

	"github.com/viant/callgraph/graph"
)

// postprocess runs the fixed pipeline spec.md §4.7 describes over the
// fully-walked graph: wildcard contraction, unknown removal, edge
// deduplication, optional orphan pruning, and finally applying the
// draw_defines/draw_uses output toggles.
func (a *Analyzer) postprocess() {
	a.contractWildcards()
	a.removeUnknowns()
	a.dedupAllEdges()
	if a.pruneOrphans {
		a.pruneOrphanNodes()
	}
	a.applyDrawToggles()
	if a.colorByFile {
		a.graph.AssignColors()
	}
}

// contractWildcards implements the exactly-one-candidate heuristic: a
// wildcard node created for an unresolved attribute base is redirected to
// a concrete node sharing its bare name, but only when that name is
// unambiguous across the whole graph. Anything else is left as unknown —
// the conservative resolution spec.md §9's open question on wildcard
// contraction settles on.
func (a *Analyzer) contractWildcards() {
	byName := map[string][]*graph.Node{}
	for _, n := range a.graph.AllNodes() {
		if n.Flavor == graph.Unknown {
			continue
		}
		byName[n.Key.Name] = append(byName[n.Key.Name], n)
	}

	redirect := map[graph.NodeKey]graph.NodeKey{}
	for _, n := range a.graph.AllNodes() {
		if n.Flavor != graph.Unknown || n.Key.Namespace != "*" {
			continue
		}
		switch candidates := byName[n.Key.Name]; len(candidates) {
		case 1:
			redirect[n.Key] = candidates[0].Key
		case 0:
			// no candidate anywhere: removeUnknowns drops it silently,
			// this is the routine case (a genuine builtin or external name).
		default:
			// spec.md §9's open question: more than one node shares this
			// bare name, so the conservative reference behavior leaves it
			// unresolved rather than guessing.
			a.logger.Warn("wildcard contraction ambiguous, leaving unresolved",
				zap.String("name", n.Key.Name), zap.Int("candidates", len(candidates)))
		}
	}
	if len(redirect) == 0 {
		return
	}

	remap := func(edges []graph.Edge) []graph.Edge {
		out := make([]graph.Edge, len(edges))
		for i, e := range edges {
			if to, ok := redirect[e.To]; ok {
				e.To = to
			}
			if from, ok := redirect[e.From]; ok {
				e.From = from
			}
			out[i] = e
		}
		return out
	}
	a.graph.ReplaceEdges(remap(a.graph.DefinesEdges()), remap(a.graph.UsesEdges()))

	contracted := make(map[graph.NodeKey]bool, len(redirect))
	for k := range redirect {
		contracted[k] = true
	}
	a.graph.RemoveNodes(contracted)
}

// removeUnknowns drops every wildcard placeholder that survived
// contraction, along with any edge still referencing it — an analysis
// that can't resolve a name says so by omission rather than by keeping a
// permanent "*.name" stand-in in the output graph.
func (a *Analyzer) removeUnknowns() {
	toRemove := map[graph.NodeKey]bool{}
	for _, n := range a.graph.AllNodes() {
		if n.Flavor == graph.Unknown {
			toRemove[n.Key] = true
		}
	}
	if len(toRemove) == 0 {
		return
	}
	filter := func(edges []graph.Edge) []graph.Edge {
		out := edges[:0]
		for _, e := range edges {
			if toRemove[e.From] || toRemove[e.To] {
				continue
			}
			out = append(out, e)
		}
		return out
	}
	a.graph.ReplaceEdges(filter(a.graph.DefinesEdges()), filter(a.graph.UsesEdges()))
	a.graph.RemoveNodes(toRemove)
}

func (a *Analyzer) dedupAllEdges() {
	a.graph.ReplaceEdges(graph.DedupEdges(a.graph.DefinesEdges()), graph.DedupEdges(a.graph.UsesEdges()))
}

// pruneOrphanNodes drops nodes with no incident edge at all, when the
// caller opted in via WithOrphanPruning (spec.md §4.7.4).
func (a *Analyzer) pruneOrphanNodes() {
	incident := map[graph.NodeKey]bool{}
	for _, e := range a.graph.DefinesEdges() {
		incident[e.From] = true
		incident[e.To] = true
	}
	for _, e := range a.graph.UsesEdges() {
		incident[e.From] = true
		incident[e.To] = true
	}
	toRemove := map[graph.NodeKey]bool{}
	for _, n := range a.graph.AllNodes() {
		if !incident[n.Key] {
			toRemove[n.Key] = true
		}
	}
	a.graph.RemoveNodes(toRemove)
}

// applyDrawToggles drops an entire edge kind from the output graph when
// the corresponding draw_defines/draw_uses option is disabled (spec.md
// §6), without touching the node registry.
func (a *Analyzer) applyDrawToggles() {
	defines, uses := a.graph.DefinesEdges(), a.graph.UsesEdges()
	if !a.drawDefines {
		defines = nil
	}
	if !a.drawUses {
		uses = nil
	}
	a.graph.ReplaceEdges(defines, uses)
}
