package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/callgraph/graph"
	"github.com/viant/callgraph/output"
)

func sampleGraph() *graph.Graph {
	g := graph.New()
	mod := g.GetOrCreate("", "mod", graph.Module, nil)
	mod.Filename = "mod.py"
	f := g.GetOrCreate("mod", "f", graph.Function, nil)
	f.Filename = "mod.py"
	f.Line = 2
	gn := g.GetOrCreate("mod", "g", graph.Function, nil)
	gn.Filename = "mod.py"
	gn.Line = 5
	g.AddEdge(mod.Key, f.Key, graph.Defines)
	g.AddEdge(mod.Key, gn.Key, graph.Defines)
	g.AddEdge(gn.Key, f.Key, graph.Uses)
	return g
}

func TestWriteDOTContainsNodesAndEdges(t *testing.T) {
	g := sampleGraph()
	var buf bytes.Buffer
	require.NoError(t, output.WriteDOT(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph callgraph {"))
	assert.Contains(t, out, `"mod.f"`)
	assert.Contains(t, out, `"mod.g"`)
	assert.Contains(t, out, `"mod" -> "mod.f"`)
	assert.Contains(t, out, `"mod.g" -> "mod.f"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
}

func TestWriteDOTColorByFile(t *testing.T) {
	g := sampleGraph()
	g.ColorByFile = true
	g.AssignColors()
	var buf bytes.Buffer
	require.NoError(t, output.WriteDOT(&buf, g))
	assert.Contains(t, buf.String(), "fillcolor=")
}

func TestWriteJSONRoundTrips(t *testing.T) {
	g := sampleGraph()
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, g))

	var decoded struct {
		Nodes []struct {
			Namespace string `json:"namespace"`
			Name      string `json:"name"`
			Flavor    string `json:"flavor"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
			Kind string `json:"kind"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Len(t, decoded.Nodes, 3)
	assert.Len(t, decoded.Edges, 3)

	var sawUses, sawDefines bool
	for _, e := range decoded.Edges {
		if e.Kind == "uses" {
			sawUses = true
			assert.Equal(t, "mod.g", e.From)
			assert.Equal(t, "mod.f", e.To)
		}
		if e.Kind == "defines" {
			sawDefines = true
		}
	}
	assert.True(t, sawUses)
	assert.True(t, sawDefines)
}

func TestWriteJSONOmitsColorWhenDisabled(t *testing.T) {
	g := sampleGraph()
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, g))
	assert.NotContains(t, buf.String(), `"color"`)
}
