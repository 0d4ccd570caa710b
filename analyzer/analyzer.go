// Package analyzer walks parsed source files and builds the node/edge
// graph described by spec.md: a two-pass, single-binary, offline call-graph
// builder over a dynamically-typed, class-based language.
//
// Grounded in the teacher's analyzer.Analyzer (viant/linager): a struct
// carrying its configuration as unexported fields, built via functional
// options (option.go), exposing one entrypoint that walks a file set and
// returns a result value. The traversal itself generalizes the teacher's
// single-pass, single-language walk into the two-pass declare-then-bind
// design spec.md §4.1 requires for forward references across files.
package analyzer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/callgraph/graph"
)

// Analyzer holds analysis configuration, mirroring the teacher's
// Analyzer struct shape (unexported fields, zero value unusable, built via
// NewAnalyzer + Option).
type Analyzer struct {
	root         string
	drawDefines  bool
	drawUses     bool
	colorByFile  bool
	annotate     bool
	projectFiles []string
	fs           afs.Service
	logger       *zap.Logger
	pruneOrphans bool
	parallelism  int

	parser *sitter.Parser
	graph  *graph.Graph

	// pendingBases accumulates each class's raw base-class expressions
	// during the declare pass, resolved once every file's nodes exist
	// (spec.md §4.1's "two passes ... to resolve forward references").
	pendingBases []pendingBase

	// scopesByNode lets the walk pass recover the exact Scope object the
	// declare pass built for a given definition (parameter bindings,
	// including the receiver, are set up once, at declare time).
	scopesByNode map[graph.NodeKey]*graph.Scope

	// definedBy tracks, for every node that has received a defines edge,
	// which parent emitted it — enforcing spec.md §3's "defines forms a
	// forest" invariant (each child has at most one defining parent).
	definedBy map[graph.NodeKey]graph.NodeKey
}

type pendingBase struct {
	node  *graph.Node
	exprs []*sitter.Node
	scope *graph.Scope
	src   []byte
}

// NewAnalyzer builds an Analyzer from options, applying the same defaults
// documented on WithFS/WithLogger.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		drawDefines:  true,
		drawUses:     true,
		scopesByNode: map[graph.NodeKey]*graph.Scope{},
		definedBy:    map[graph.NodeKey]graph.NodeKey{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fs == nil {
		a.fs = afs.New()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.parser = sitter.NewParser()
	a.parser.SetLanguage(python.GetLanguage())
	return a
}

// Analyze is the package entrypoint (SPEC_FULL.md §6): parse every file,
// declare every node across the whole set, resolve class bases and MRO,
// then bind assignments and emit uses — finally handing the graph to the
// postprocessor.
func Analyze(ctx context.Context, files []string, opts ...Option) (*graph.Graph, error) {
	return NewAnalyzer(opts...).Analyze(ctx, files)
}

// fileState carries one file's parsed tree and module scope between the
// declare and walk passes.
type fileState struct {
	path        string
	src         []byte
	tree        *sitter.Tree
	moduleNode  *graph.Node
	moduleScope *graph.Scope
}

func (a *Analyzer) Analyze(ctx context.Context, files []string) (*graph.Graph, error) {
	a.graph = graph.New()
	a.graph.ColorByFile = a.colorByFile
	a.graph.Annotate = a.annotate

	root, err := a.inferRoot(ctx, files)
	if err != nil {
		return nil, err
	}
	a.root = root

	parsed, err := a.parseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	states := make([]*fileState, 0, len(parsed))
	for _, pf := range parsed {
		states = append(states, a.declareFile(pf))
	}

	a.resolveBases()

	// spec.md §4.6 "Iterating twice": the whole binding/use pass runs
	// twice over the full source set so a name used before its binding
	// has been seen (textually, or in a file processed earlier) still
	// resolves once the second iteration sees the fully populated
	// bindings left behind by the first. Scope tables built by the
	// declare pass above are reused unchanged across both iterations.
	for pass := 0; pass < 2; pass++ {
		for _, fs := range states {
			a.walkFile(fs)
		}
	}

	a.postprocess()
	return a.graph, nil
}

// declareFile pre-registers the module node and every nested class/
// function/method definition it contains, building the scope tree as it
// goes, so pass two can resolve references to definitions appearing later
// in this file or in any other file.
func (a *Analyzer) declareFile(pf *parsedFile) *fileState {
	namespace, name := splitFQN(namespaceOf(a.root, pf.path))
	moduleNode := a.graph.GetOrCreate(namespace, name, graph.Module, pf.tree.RootNode())
	moduleNode.Filename = pf.path

	moduleScope := graph.NewScope(moduleNode.Key.FQN(), "module", name, nil)
	moduleScope.Node = moduleNode
	moduleScope.Defs = moduleNode.Own
	applySymbolTable(moduleScope, buildSymbolTable(pf.tree.RootNode(), pf.src))

	a.declareBody(pf.tree.RootNode(), pf.src, moduleScope, moduleNode.Key.FQN(), pf.path)

	return &fileState{
		path:        pf.path,
		src:         pf.src,
		tree:        pf.tree,
		moduleNode:  moduleNode,
		moduleScope: moduleScope,
	}
}

// declareBody scans n's direct statement list for class/function
// definitions (optionally decorator-wrapped), registering each as a graph
// node plus a Defines edge from the enclosing node, and recurses into
// transparent compound statements (if/for/with/try/match) the same way
// symtable's pre-scan does, since definitions may legally appear nested
// inside them at module or class scope.
func (a *Analyzer) declareBody(n *sitter.Node, src []byte, scope *graph.Scope, namespace, filename string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition", "class_definition", "decorated_definition":
		a.declareDefinition(n, src, scope, namespace, filename)
		return
	}
	if transparentKinds[n.Type()] || n.Parent() == nil {
		for i := 0; i < int(n.ChildCount()); i++ {
			a.declareBody(n.Child(i), src, scope, namespace, filename)
		}
	}
}

func (a *Analyzer) declareDefinition(n *sitter.Node, src []byte, scope *graph.Scope, namespace, filename string) {
	decorators := decoratorNames(n, src)
	def := definitionNode(n)
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, src)

	switch def.Type() {
	case "function_definition":
		flavor := graph.Function
		switch {
		case scope.Kind == "class" && hasDecorator(decorators, "staticmethod"):
			flavor = graph.StaticMethod
		case scope.Kind == "class" && hasDecorator(decorators, "classmethod"):
			flavor = graph.ClassMethod
		case scope.Kind == "class":
			flavor = graph.Method
		}
		child := a.graph.GetOrCreate(namespace, name, flavor, def)
		child.Filename = filename
		p := nameNode.StartPoint()
		child.Line, child.Col = int(p.Row)+1, int(p.Column)+1
		scope.Bind(name, graph.BindNode(child))
		if scope.Node != nil {
			a.emitDefines(scope.Node.Key, child.Key)
		}

		childScope := graph.NewScope(child.Key.FQN(), funcScopeKind(flavor), name, scope)
		childScope.Node = child
		a.scopesByNode[child.Key] = childScope
		body := def.ChildByFieldName("body")
		st := buildSymbolTable(body, src)
		if params := def.ChildByFieldName("parameters"); params != nil {
			scanParameters(st, params, src)
		}
		applySymbolTable(childScope, st)
		if params := def.ChildByFieldName("parameters"); params != nil && flavor != graph.StaticMethod && flavor != graph.Function {
			if recv := firstParamName(params, src); recv != "" {
				bindReceiver(childScope, recv, enclosingClassNode(scope))
			}
		}
		if body != nil {
			a.declareBody(body, src, childScope, child.Key.FQN(), filename)
		}

	case "class_definition":
		child := a.graph.GetOrCreate(namespace, name, graph.Class, def)
		child.Filename = filename
		p := nameNode.StartPoint()
		child.Line, child.Col = int(p.Row)+1, int(p.Column)+1
		scope.Bind(name, graph.BindNode(child))
		if scope.Node != nil {
			a.emitDefines(scope.Node.Key, child.Key)
		}

		if argList := def.ChildByFieldName("superclasses"); argList != nil {
			var exprs []*sitter.Node
			for i := 0; i < int(argList.NamedChildCount()); i++ {
				arg := argList.NamedChild(i)
				if arg.Type() == "keyword_argument" {
					continue // metaclass=... and similar are not base classes
				}
				exprs = append(exprs, arg)
			}
			if len(exprs) > 0 {
				a.pendingBases = append(a.pendingBases, pendingBase{node: child, exprs: exprs, scope: scope, src: src})
			}
		}

		classScope := graph.NewScope(child.Key.FQN(), "class", name, scope)
		classScope.Node = child
		classScope.Defs = child.Own
		a.scopesByNode[child.Key] = classScope
		if body := def.ChildByFieldName("body"); body != nil {
			a.declareBody(body, src, classScope, child.Key.FQN(), filename)
		}
	}
}

func funcScopeKind(flavor graph.NodeFlavor) string {
	if flavor == graph.Method || flavor == graph.ClassMethod {
		return "method"
	}
	return "function"
}

func enclosingClassNode(scope *graph.Scope) *graph.Node {
	cls := scope.EnclosingClass()
	if cls == nil {
		return nil
	}
	return cls.Node
}

// emitDefines records a defines edge from parent to child, enforcing
// spec.md §3's "defines forms a forest" invariant: get_or_create/upgrade
// already gives each (namespace, name) a single canonical Node, but two
// distinct enclosing scopes both trying to claim it as their own nested
// definition would still be a bug in the declare pass, not a condition the
// rest of the pipeline can sensibly paper over.
func (a *Analyzer) emitDefines(parent, child graph.NodeKey) {
	if existing, ok := a.definedBy[child]; ok && existing != parent {
		panicInvariant("defines is not a forest: %s already defined by %s, cannot also be defined by %s", child.FQN(), existing.FQN(), parent.FQN())
	}
	a.definedBy[child] = parent
	a.graph.AddEdge(parent, child, graph.Defines)
}

func firstParamName(params *sitter.Node, src []byte) string {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			return text(p, src)
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if n := p.ChildByFieldName("name"); n != nil {
				return text(n, src)
			}
			if p.NamedChildCount() > 0 {
				return text(p.NamedChild(0), src)
			}
		}
		return ""
	}
	return ""
}

// resolveBases evaluates every pending class's base-class expressions now
// that the whole file set has been declared, then linearizes its MRO
// (spec.md §4.5).
func (a *Analyzer) resolveBases() {
	for _, pb := range a.pendingBases {
		for _, expr := range pb.exprs {
			b := a.evaluateExpr(expr, pb.scope, pb.src)
			n := b.Single()
			if n != nil && !n.IsUnknown() {
				pb.node.Bases = append(pb.node.Bases, n.Key)
				continue
			}
			// A base-class expression that didn't resolve to exactly one
			// concrete node (unresolved, or an externally-defined class
			// outside the analyzed set) is dropped from Bases together
			// with every base declared after it, which is where the MRO
			// truncation spec.md §4.5 describes actually happens.
			a.logger.Warn("base class did not resolve, MRO will truncate here",
				zap.String("class", pb.node.Key.FQN()))
			break
		}
	}
	for _, pb := range a.pendingBases {
		pb.node.MRO = graph.LinearizeMRO(pb.node, a.graph.LookupKey)
	}
}

// splitFQN splits a dotted fully-qualified name into its namespace (every
// segment but the last) and its terminal name. "" splits to ("", "").
func splitFQN(fqn string) (namespace, name string) {
	if fqn == "" {
		return "", ""
	}
	idx := strings.LastIndex(fqn, ".")
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}
