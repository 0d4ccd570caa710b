package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/callgraph/analyzer"
	"github.com/viant/callgraph/graph"
)

// writeFiles materializes a small source tree under t.TempDir() and
// returns the absolute paths of the written files, in the given order —
// spec.md §5's "files are processed in the order the caller supplies".
func writeFiles(t *testing.T, files map[string]string, order []string) []string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	paths := make([]string, len(order))
	for i, name := range order {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

func hasUsesEdge(edges []graph.Edge, fromNS, fromName, toNS, toName string) bool {
	for _, e := range edges {
		if e.From.Namespace == fromNS && e.From.Name == fromName &&
			e.To.Namespace == toNS && e.To.Name == toName {
			return true
		}
	}
	return false
}

func hasDefinesEdge(edges []graph.Edge, fromNS, fromName, toNS, toName string) bool {
	return hasUsesEdge(edges, fromNS, fromName, toNS, toName)
}

// Scenario 1 (spec.md §8): mutual recursion between two top-level
// functions must produce uses edges in both directions.
func TestMutualRecursion(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def ping():
    pong()

def pong():
    ping()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	uses := g.UsesEdges()
	assert.True(t, hasUsesEdge(uses, "mod", "ping", "mod", "pong"), "expected ping -> pong")
	assert.True(t, hasUsesEdge(uses, "mod", "pong", "mod", "ping"), "expected pong -> ping")
}

// Scenario 2 (spec.md §8): a method capturing a module-level function via
// `self.g = f` in __init__ and calling it via `self.g()` in another
// method must resolve the call back to the captured function.
func TestMethodCapture(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def f():
    pass

class C:
    def __init__(self):
        self.g = f

    def h(self):
        self.g()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	uses := g.UsesEdges()
	assert.True(t, hasUsesEdge(uses, "mod.C", "h", "mod", "f"), "expected C.h -> f")
}

// Scenario 3 (spec.md §8): an inherited method resolved through the MRO,
// and no wildcard node left over for the inherited name.
func TestInheritedMethod(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
class A:
    def greet(self):
        pass

class B(A):
    def speak(self):
        self.greet()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	uses := g.UsesEdges()
	assert.True(t, hasUsesEdge(uses, "mod.B", "speak", "mod.A", "greet"), "expected B.speak -> A.greet")

	for _, n := range g.AllNodes() {
		assert.False(t, n.IsUnknown(), "postprocessed output must contain no unknown nodes, found %s", n.Key.FQN())
		assert.NotEqual(t, graph.NodeKey{Namespace: "*", Name: "greet"}, n.Key, "no leftover wildcard named greet")
	}
}

// Scenario 6 (spec.md §8): super() resolves one ancestor past the
// lexically enclosing class, not back to the calling class itself.
func TestSuperResolution(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
class A:
    def m(self):
        pass

class B(A):
    def m(self):
        super().m()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	uses := g.UsesEdges()
	assert.True(t, hasUsesEdge(uses, "mod.B", "m", "mod.A", "m"), "expected B.m -> A.m via super()")
	assert.False(t, hasUsesEdge(uses, "mod.B", "m", "mod.B", "m"), "must not resolve super().m() back to B.m itself")
}

// Scenario 4 (spec.md §8): a for-loop's loop counter never spawns a
// wildcard node.
func TestForLoopProtocol(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def scan(xs):
    total = 0
    for x in xs:
        total = total + x
    return total
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	for _, n := range g.AllNodes() {
		assert.NotEqual(t, "x", n.Key.Name, "loop counter must not produce a wildcard node")
	}
}

// Forward references within one file must resolve on the second pass
// (spec.md §8's forward-reference property): g defined textually before
// f, but calling f, must still produce a g -> f uses edge.
func TestForwardReferenceWithinFile(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def g():
    f()

def f():
    pass
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	assert.True(t, hasUsesEdge(g.UsesEdges(), "mod", "g", "mod", "f"))
}

// Forward references across files, in caller-supplied order, must also
// resolve: file "a.py" (processed first) calls into "b.py" (processed
// second).
func TestForwardReferenceAcrossFiles(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"a.py": `
from b import helper

def use_it():
    helper()
`,
		"b.py": `
def helper():
    pass
`,
	}, []string{"a.py", "b.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	assert.True(t, hasUsesEdge(g.UsesEdges(), "a", "use_it", "b", "helper"))
}

// A defines edge must exist from a class to its method, and from the
// module to the class (spec.md's "definitions" property).
func TestDefinesEdgesForClassAndMethod(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
class C:
    def m(self):
        pass
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	defines := g.DefinesEdges()
	assert.True(t, hasDefinesEdge(defines, "", "mod", "mod", "C"))
	assert.True(t, hasDefinesEdge(defines, "mod", "C", "mod.C", "m"))

	cls := findNode(g, "mod", "C")
	require.NotNil(t, cls)
	assert.Equal(t, graph.Class, cls.Flavor)

	method := findNode(g, "mod.C", "m")
	require.NotNil(t, method)
	assert.Equal(t, graph.Method, method.Flavor)
}

// The postprocessed graph must contain no unknown nodes at all (spec.md
// §8): a reference to a name with no definition anywhere in the analyzed
// set is dropped, not left as a dangling wildcard.
func TestNoUnknownNodesSurviveUnresolvedReference(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def f():
    totally_undefined_name()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	for _, n := range g.AllNodes() {
		assert.False(t, n.IsUnknown())
	}
	for _, e := range g.UsesEdges() {
		assert.NotEqual(t, "totally_undefined_name", e.To.Name)
	}
}

// Emitting the same use twice (calling the same function from two
// statements) must collapse to a single edge (spec.md §8 dedup law).
func TestUsesDeduplication(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def f():
    pass

def g():
    f()
    f()
`,
	}, []string{"mod.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)

	count := 0
	for _, e := range g.UsesEdges() {
		if e.From.Name == "g" && e.To.Name == "f" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate uses edges must collapse to one")
}

// WithDrawDefines(false) and WithDrawUses(false) must drop the
// respective edge kind entirely from the output (spec.md §6).
func TestDrawToggles(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"mod.py": `
def f():
    pass

def g():
    f()
`,
	}, []string{"mod.py"})
	root := filepath.Dir(files[0])

	g1, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(root), analyzer.WithDrawUses(false))
	require.NoError(t, err)
	assert.Empty(t, g1.UsesEdges())
	assert.NotEmpty(t, g1.DefinesEdges())

	g2, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(root), analyzer.WithDrawDefines(false))
	require.NoError(t, err)
	assert.Empty(t, g2.DefinesEdges())
	assert.NotEmpty(t, g2.UsesEdges())
}

// A parse failure on one file must not abort the run: the remaining
// files are still analyzed (spec.md §7).
func TestParseFailureIsRecoverable(t *testing.T) {
	files := writeFiles(t, map[string]string{
		"broken.py": `def (((( not python at all this is garbage >>> <<<`,
		"good.py": `
def f():
    pass

def g():
    f()
`,
	}, []string{"broken.py", "good.py"})

	g, err := analyzer.Analyze(context.Background(), files, analyzer.WithRoot(filepath.Dir(files[0])))
	require.NoError(t, err)
	assert.True(t, hasUsesEdge(g.UsesEdges(), "good", "g", "good", "f"))
}

// An unreadable input path is a malformed-input-set error, surfaced to
// the caller rather than silently skipped (spec.md §7).
func TestMissingFileIsSurfacedAsInputError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.py")

	_, err := analyzer.Analyze(context.Background(), []string{missing}, analyzer.WithRoot(dir))
	require.Error(t, err)
	var inputErr *analyzer.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func findNode(g *graph.Graph, namespace, name string) *graph.Node {
	return g.Lookup(namespace, name)
}
