package analyzer

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/callgraph/graph"
)

// parseModule is a test helper that parses src as a standalone module and
// runs it through declareFile + two walkFile passes — exercising the same
// pipeline Analyze uses, without needing real files on disk — returning
// the module scope for direct binding inspection.
func parseModule(t *testing.T, src string) *graph.Scope {
	t.Helper()
	_, fs := analyzeModule(t, src)
	return fs.moduleScope
}

// analyzeModule is parseModule's lower-level counterpart, also returning
// the Analyzer so a test can reach a.scopesByNode for a nested function's
// scope.
func analyzeModule(t *testing.T, src string) (*Analyzer, *fileState) {
	t.Helper()
	a := NewAnalyzer()
	a.graph = graph.New()
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)

	pf := &parsedFile{path: "mod.py", src: []byte(src), tree: tree}
	fs := a.declareFile(pf)
	a.resolveBases()
	a.walkFile(fs)
	a.walkFile(fs)
	return a, fs
}

func nodeName(b graph.Binding) string {
	if n := b.Single(); n != nil {
		return n.Key.Name
	}
	return ""
}

func nodeNames(b graph.Binding) []string {
	var out []string
	for _, n := range b.Nodes() {
		out = append(out, n.Key.Name)
	}
	return out
}

// Scenario 5 (spec.md §8): `a, *b, c = x, y, z, w` with a literal tuple
// RHS of matching shape performs exact positional matching: a<-x, c<-w,
// b<-{y, z}.
func TestStarredUnpackingExactShape(t *testing.T) {
	scope := parseModule(t, `
def x(): pass
def y(): pass
def z(): pass
def w(): pass

a, *b, c = x, y, z, w
`)

	aBind, ok := scope.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "x", nodeName(aBind))

	cBind, ok := scope.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "w", nodeName(cBind))

	bBind, ok := scope.Lookup("b")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"y", "z"}, nodeNames(bBind))
}

// When the RHS isn't a literal tuple/list of known shape, unpacking falls
// back to the cartesian overapproximation: every target is bound to the
// whole RHS value (spec.md §4.4).
func TestUnpackingFallsBackWhenShapeUnknown(t *testing.T) {
	scope := parseModule(t, `
def f(): pass

def make():
    pass

a, b = make()
`)

	aBind, ok := scope.Lookup("a")
	require.True(t, ok)
	assert.True(t, aBind.IsUnresolved(), "call results are not tracked, so unpacking falls back to unresolved")
}

// Chained assignment `a = b = expr` binds every target to expr's value
// (spec.md §4.4).
func TestChainedAssignment(t *testing.T) {
	scope := parseModule(t, `
def f(): pass

a = b = f
`)

	aBind, ok := scope.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "f", nodeName(aBind))

	bBind, ok := scope.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "f", nodeName(bBind))
}

// Attribute-chain assignment `a.b.c = expr`: if a prefix is unresolved the
// binding is skipped silently, never panicking (spec.md §4.4).
func TestAttributeChainAssignmentSkipsOnUnresolvedPrefix(t *testing.T) {
	assert.NotPanics(t, func() {
		parseModule(t, `
def f(): pass

undefined_thing.b.c = f
`)
	})
}

// A local identifier that is only ever assigned, never referenced,
// produces no wildcard node at all (spec.md §8's local-only property).
func TestLocalOnlyAssignmentProducesNoWildcard(t *testing.T) {
	a, _ := analyzeModule(t, `
def f():
    temp = 1
`)
	fNode := a.graph.Lookup("mod", "f")
	require.NotNil(t, fNode)
	fScope := a.scopesByNode[fNode.Key]
	require.NotNil(t, fScope)

	assert.Contains(t, fScope.Locals, "temp")
	for _, n := range a.graph.AllNodes() {
		assert.NotEqual(t, "temp", n.Key.Name)
	}
}
