package output

import (
	"encoding/json"
	"io"

	"github.com/viant/callgraph/graph"
)

// jsonNode and jsonEdge are the wire shapes for JSON output — flattened
// out of graph.Node/graph.Edge rather than marshaling them directly, since
// Node carries analysis-only bookkeeping (Own, ASTNode) that has no business
// in the output format.
type jsonNode struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Flavor    string `json:"flavor"`
	Filename  string `json:"filename,omitempty"`
	Line      int    `json:"line,omitempty"`
	Col       int    `json:"col,omitempty"`
	Color     int    `json:"color,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

// WriteJSON renders g as a single JSON document: every node plus the
// combined defines/uses edge list, each edge tagged with its kind.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	out := jsonGraph{}
	for _, n := range g.AllNodes() {
		jn := jsonNode{
			Namespace: n.Key.Namespace,
			Name:      n.Key.Name,
			Flavor:    n.Flavor.String(),
			Filename:  n.Filename,
			Line:      n.Line,
			Col:       n.Col,
		}
		if g.ColorByFile {
			jn.Color = n.Color
		}
		out.Nodes = append(out.Nodes, jn)
	}
	for _, e := range g.DefinesEdges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From.FQN(), To: e.To.FQN(), Kind: "defines"})
	}
	for _, e := range g.UsesEdges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From.FQN(), To: e.To.FQN(), Kind: "uses"})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
