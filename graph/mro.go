package graph

// LinearizeMRO computes the method-resolution order for a class given its
// already-resolved base nodes, in left-to-right declaration order.
//
// spec.md §4.5 is explicit that full C3 linearization is not required:
// "single inheritance with left-to-right traversal of bases is sufficient
// for the precision goal". We implement depth-first, left-to-right
// traversal of the base chain, deduplicating repeated ancestors (keeping
// each class's first, closest occurrence) — this is the documented
// tie-break policy for diamond inheritance referenced in spec.md §9's
// open question: a class reachable through two different bases is
// resolved via whichever base was declared first.
//
// The resulting order always starts with self. Traversal stops the
// instant it reaches a base whose Node is nil (unresolved/external);
// nothing past that point is included, matching "the MRO is truncated at
// that point; subsequent lookups through that slot return unknown".
func LinearizeMRO(self *Node, resolveBase func(NodeKey) *Node) []NodeKey {
	order := []NodeKey{self.Key}
	seen := map[NodeKey]bool{self.Key: true}

	truncated := false
	var visit func(bases []NodeKey)
	visit = func(bases []NodeKey) {
		for _, baseKey := range bases {
			if truncated {
				return
			}
			if seen[baseKey] {
				continue
			}
			base := resolveBase(baseKey)
			if base == nil || base.IsUnknown() {
				// Truncate: do not traverse past an unresolved base, and
				// do not add it to the MRO either (spec.md: "subsequent
				// lookups through that slot return unknown", which this
				// analyzer implements by simply not extending the MRO).
				truncated = true
				return
			}
			seen[baseKey] = true
			order = append(order, baseKey)
			visit(base.Bases)
		}
	}
	visit(self.Bases)
	return order
}
